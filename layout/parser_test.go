package layout

import (
	"errors"
	"testing"

	"github.com/samasastudio/brutalcast/internal/models"
)

func TestParseRejectsIncompleteLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Not JSON at all", "sorry, I cannot help with that"},
		{"Malformed JSON", `{"blurb": "x",`},
		{"Missing imagePrompt and uiComponents", `{"blurb":"x"}`},
		{"Empty blurb", `{"blurb":"","imagePrompt":"y","uiComponents":[]}`},
		{"Missing uiComponents", `{"blurb":"x","imagePrompt":"y"}`},
		{"uiComponents wrong shape", `{"blurb":"x","imagePrompt":"y","uiComponents":{"type":"CARD"}}`},
		{"Unknown component type", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"GAUGE","title":"t","props":{}}]}`},
		{"Table without dataKeys", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"TABLE","title":"t","props":{"cities":["London"]}}]}`},
		{"Card without cities", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"CARD","title":"t","props":{}}]}`},
		{"Bar chart without dataKeys", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"BAR_CHART","title":"t","props":{}}]}`},
		{"Line chart without cities", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"LINE_CHART","title":"t","props":{"xAxisKey":"day","yAxisKey":"temp"}}]}`},
		{"Scatter chart without zAxisKey", `{"blurb":"x","imagePrompt":"y","uiComponents":[{"type":"SCATTER_CHART","title":"t","props":{"xAxisKey":"temp","yAxisKey":"humidity"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestParseAcceptsEmptyComponentList(t *testing.T) {
	generated, err := Parse(`{"blurb":"x","imagePrompt":"y","uiComponents":[]}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if generated.Blurb != "x" || generated.ImagePrompt != "y" {
		t.Errorf("Unexpected layout fields: %+v", generated)
	}
	if generated.UIComponents == nil || len(generated.UIComponents) != 0 {
		t.Errorf("Expected empty component list, got %v", generated.UIComponents)
	}
}

func TestParseToleratesSurroundingProse(t *testing.T) {
	raw := "Here is your layout:\n```json\n" +
		`{"blurb":"b","imagePrompt":"p","uiComponents":[{"type":"CARD","title":"Highlights","props":{"cities":["London"]}}]}` +
		"\n```\nEnjoy!"

	generated, err := Parse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(generated.UIComponents) != 1 || generated.UIComponents[0].Type != models.ComponentCard {
		t.Errorf("Unexpected components: %+v", generated.UIComponents)
	}
}

func TestParseValidatesFullLayout(t *testing.T) {
	raw := `{
		"blurb": "London drizzles while Paris sulks.",
		"imagePrompt": "flat vector poster",
		"uiComponents": [
			{"type": "TABLE", "title": "Overview", "props": {"cities": ["London", "Paris"], "dataKeys": ["temp", "humidity"]}},
			{"type": "LINE_CHART", "title": "Forecast", "props": {"xAxisKey": "day", "yAxisKey": "temp", "cities": ["London", "Paris"]}},
			{"type": "SCATTER_CHART", "title": "Spread", "props": {"xAxisKey": "temp", "yAxisKey": "humidity", "zAxisKey": "pressure"}}
		]
	}`

	generated, err := Parse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(generated.UIComponents) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(generated.UIComponents))
	}

	line := generated.UIComponents[1]
	if line.Props.LimitDays != 5 {
		t.Errorf("Expected limitDays to default to 5, got %d", line.Props.LimitDays)
	}
}

func TestParsePreservesComponentOrder(t *testing.T) {
	raw := `{"blurb":"b","imagePrompt":"p","uiComponents":[
		{"type":"CARD","title":"first","props":{"cities":["A"]}},
		{"type":"BAR_CHART","title":"second","props":{"dataKeys":["temp"]}},
		{"type":"CARD","title":"third","props":{"cities":["B"]}}
	]}`

	generated, err := Parse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if generated.UIComponents[i].Title != want {
			t.Errorf("Component %d: expected title %q, got %q", i, want, generated.UIComponents[i].Title)
		}
	}
}
