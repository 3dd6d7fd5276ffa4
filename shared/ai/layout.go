package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/layout"
	"github.com/samasastudio/brutalcast/shared/config"

	"google.golang.org/genai"
)

// LayoutGenerator produces a UI layout description for a set of snapshots.
type LayoutGenerator interface {
	GenerateLayout(ctx context.Context, weather models.WeatherSnapshotMap, userPrompt string, units models.Unit) (*models.GeneratedLayout, error)
}

// ImageGenerator turns a text prompt into an inline image data URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Client wraps the Gemini API for both layout and image generation.
type Client struct {
	client      *genai.Client
	layoutModel string
	imageModel  string
}

func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:      client,
		layoutModel: cfg.LayoutModel,
		imageModel:  cfg.ImageModel,
	}, nil
}

// GenerateLayout asks the model for a layout describing how to visualize the
// weather comparison, constrained by a structured-output schema, and runs the
// response through the layout interpreter.
func (c *Client) GenerateLayout(ctx context.Context, weather models.WeatherSnapshotMap, userPrompt string, units models.Unit) (*models.GeneratedLayout, error) {
	prompt, err := buildLayoutPrompt(weather, userPrompt, units)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.layoutModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   layoutSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate layout: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("%w: empty response from layout model", layout.ErrInvalidLayout)
	}
	return layout.Parse(text)
}

func buildLayoutPrompt(weather models.WeatherSnapshotMap, userPrompt string, units models.Unit) (string, error) {
	snapshots := layout.Ordered(weather)
	weatherJSON, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize weather data: %w", err)
	}

	var unitInstructions string
	if units == models.UnitImperial {
		unitInstructions = "The current unit system is 'imperial': temperature is in Fahrenheit (°F) and wind speed is in miles per hour (mph)."
	} else {
		unitInstructions = "The current unit system is 'metric': temperature is in Celsius (°C) and wind speed is in meters per second (m/s)."
	}
	unitInstructions += "\nIMPORTANT: Any titles or labels you generate must reflect this, e.g. 'Temperature Comparison (°F)' for imperial units."

	var generationInstructions string
	if strings.TrimSpace(userPrompt) != "" {
		generationInstructions = fmt.Sprintf(`The user has provided a specific request for the UI layout.
IMPORTANT: You MUST generate ONLY the components described in the user's request. Do NOT add any extra components.
Fulfill their request as accurately as possible.
User's request: %q`, userPrompt)
	} else {
		generationInstructions = `The user has not specified a layout. Generate a diverse and interesting layout automatically.
Your response should include 3 to 5 different UI components to compare the weather data in interesting ways.
- For charts, choose data keys that make for an interesting comparison.
- For tables, select a few key columns.
- For cards, select a few cities to highlight. Ensure the 'cities' prop is an array of city name strings.`
	}

	return fmt.Sprintf(`Analyze the following weather data for several cities and generate a UI layout configuration.
Your response MUST be a valid JSON object matching the provided schema.

The weather data includes a 'forecast' field: an array of daily predictions for the next 5 days.
Each forecast item has: 'day', 'temp', 'humidity', and 'chance_of_rain'.

%s

%s

Regardless of the mode, remember these global rules:
- The 'blurb' should be a single, witty sentence that summarizes the weather comparison.
- The 'imagePrompt' MUST describe a 2D vector illustration with a flat design. The style must be bold and graphic, using a limited color palette of black, white, and vibrant yellow (#facc15). It should have clean lines, hard shadows, no gradients, and feel like a modern screen print or vector art poster. Avoid 3D or photographic styles.

Component-specific rules:
- BAR_CHART: Use 'dataKeys' to select metrics from the main weather object.
- SCATTER_CHART: Use 'xAxisKey', 'yAxisKey', 'zAxisKey' for metrics from the main weather object.
- LINE_CHART: This chart visualizes the 5-day forecast. You MUST provide 'xAxisKey' and 'yAxisKey' from the forecast data fields ('temp', 'humidity', 'chance_of_rain') plus a 'cities' array. Do NOT use 'dataKeys' for LINE_CHART.
- TABLE/CARD: Use 'cities' to select which cities to display. For TABLE, also provide 'dataKeys'.

Weather Data:
%s`, unitInstructions, generationInstructions, weatherJSON), nil
}

// layoutSchema mirrors the GeneratedLayout shape so the model's structured
// output is constrained server-side, not just validated after the fact.
func layoutSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"blurb": {
				Type:        genai.TypeString,
				Description: "A cheeky, one-sentence summary of the weather comparison.",
			},
			"imagePrompt": {
				Type:        genai.TypeString,
				Description: "A creative prompt for an image generation model describing a flat 2D vector illustration in black, white, and vibrant yellow.",
			},
			"uiComponents": {
				Type:        genai.TypeArray,
				Description: "An array of UI component configurations to display the data.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type:        genai.TypeString,
							Description: "The type of UI component to render.",
							Enum:        []string{"TABLE", "CARD", "BAR_CHART", "LINE_CHART", "SCATTER_CHART"},
						},
						"title": {
							Type:        genai.TypeString,
							Description: "A descriptive title for the UI component.",
						},
						"props": {
							Type:        genai.TypeObject,
							Description: "The properties the component needs. For charts, select keys for axes; for tables and cards, select data points and cities.",
							Properties: map[string]*genai.Schema{
								"cities": {
									Type:        genai.TypeArray,
									Description: "City names to display. Used by TABLE, CARD, and LINE_CHART.",
									Items:       &genai.Schema{Type: genai.TypeString},
								},
								"dataKeys": {
									Type:        genai.TypeArray,
									Description: "Data keys (e.g. 'temp', 'humidity') to plot or display. Used by TABLE, BAR_CHART.",
									Items:       &genai.Schema{Type: genai.TypeString},
								},
								"xAxisKey": {
									Type:        genai.TypeString,
									Description: "The data key for the X-axis. Used by SCATTER_CHART and LINE_CHART.",
								},
								"yAxisKey": {
									Type:        genai.TypeString,
									Description: "The data key for the Y-axis. Used by SCATTER_CHART and LINE_CHART.",
								},
								"zAxisKey": {
									Type:        genai.TypeString,
									Description: "The data key for the Z-axis (bubble size). Used by SCATTER_CHART.",
								},
							},
						},
					},
					Required: []string{"type", "title", "props"},
				},
			},
		},
		Required: []string{"blurb", "imagePrompt", "uiComponents"},
	}
}
