package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samasastudio/brutalcast/internal/models"
)

// ErrInvalidLayout reports a malformed or incomplete layout response from the
// AI service. Callers should treat it as fatal for the current search.
var ErrInvalidLayout = errors.New("invalid layout")

// Parse interprets the raw text returned by the layout service. The model is
// asked for pure JSON, but prose around the object is tolerated by slicing
// from the first '{' to the last '}'.
//
// Validation is strict: the three top-level fields must be present and well
// shaped, and every component descriptor must carry exactly the props its
// type requires. Unknown component types are rejected rather than passed
// through to rendering.
func Parse(raw string) (*models.GeneratedLayout, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidLayout)
	}

	var payload struct {
		Blurb        string          `json:"blurb"`
		ImagePrompt  string          `json:"imagePrompt"`
		UIComponents json.RawMessage `json:"uiComponents"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if payload.Blurb == "" {
		return nil, fmt.Errorf("%w: missing blurb", ErrInvalidLayout)
	}
	if payload.ImagePrompt == "" {
		return nil, fmt.Errorf("%w: missing imagePrompt", ErrInvalidLayout)
	}
	if payload.UIComponents == nil {
		return nil, fmt.Errorf("%w: missing uiComponents", ErrInvalidLayout)
	}

	components := []models.UIComponent{}
	if err := json.Unmarshal(payload.UIComponents, &components); err != nil {
		return nil, fmt.Errorf("%w: uiComponents is not a component list: %v", ErrInvalidLayout, err)
	}

	for i := range components {
		if err := validateComponent(&components[i]); err != nil {
			return nil, fmt.Errorf("%w: component %d (%s): %v", ErrInvalidLayout, i, components[i].Type, err)
		}
	}

	return &models.GeneratedLayout{
		Blurb:        payload.Blurb,
		ImagePrompt:  payload.ImagePrompt,
		UIComponents: components,
	}, nil
}

// validateComponent enforces the per-type required props and fills defaults.
// Extra props are ignored.
func validateComponent(c *models.UIComponent) error {
	switch c.Type {
	case models.ComponentTable:
		if len(c.Props.Cities) == 0 {
			return fmt.Errorf("requires cities")
		}
		if len(c.Props.DataKeys) == 0 {
			return fmt.Errorf("requires dataKeys")
		}
	case models.ComponentCard:
		if len(c.Props.Cities) == 0 {
			return fmt.Errorf("requires cities")
		}
	case models.ComponentBarChart:
		if len(c.Props.DataKeys) == 0 {
			return fmt.Errorf("requires dataKeys")
		}
	case models.ComponentLineChart:
		if c.Props.XAxisKey == "" || c.Props.YAxisKey == "" {
			return fmt.Errorf("requires xAxisKey and yAxisKey")
		}
		if len(c.Props.Cities) == 0 {
			return fmt.Errorf("requires cities")
		}
		if c.Props.LimitDays <= 0 {
			c.Props.LimitDays = 5
		}
	case models.ComponentScatterChart:
		if c.Props.XAxisKey == "" || c.Props.YAxisKey == "" || c.Props.ZAxisKey == "" {
			return fmt.Errorf("requires xAxisKey, yAxisKey and zAxisKey")
		}
	default:
		return fmt.Errorf("unknown component type")
	}
	return nil
}
