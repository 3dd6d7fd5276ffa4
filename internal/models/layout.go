package models

// ComponentType tags which visualization a UIComponent describes.
type ComponentType string

const (
	ComponentTable        ComponentType = "TABLE"
	ComponentCard         ComponentType = "CARD"
	ComponentBarChart     ComponentType = "BAR_CHART"
	ComponentLineChart    ComponentType = "LINE_CHART"
	ComponentScatterChart ComponentType = "SCATTER_CHART"
)

// ComponentProps carries the per-component configuration produced by the
// layout service. Which fields are required depends on the component type;
// fields that a type does not use are left at their zero values.
type ComponentProps struct {
	Cities    []string `json:"cities,omitempty"`
	DataKeys  []string `json:"dataKeys,omitempty"`
	XAxisKey  string   `json:"xAxisKey,omitempty"`
	YAxisKey  string   `json:"yAxisKey,omitempty"`
	ZAxisKey  string   `json:"zAxisKey,omitempty"`
	LimitDays int      `json:"limitDays,omitempty"`
}

// UIComponent is one entry of a generated layout. Components are rendered in
// the order the layout service returned them.
type UIComponent struct {
	Type  ComponentType  `json:"type"`
	Title string         `json:"title"`
	Props ComponentProps `json:"props"`
}

// GeneratedLayout is the validated output of the layout service: a short
// summary sentence, a prompt for the image model, and the component list.
type GeneratedLayout struct {
	Blurb        string        `json:"blurb"`
	ImagePrompt  string        `json:"imagePrompt"`
	UIComponents []UIComponent `json:"uiComponents"`
}

// ComparisonResult is the output of one full pipeline run. ImageDataURL is
// empty when image generation failed or no prompt was produced; the rest of
// the result stays valid in that case.
type ComparisonResult struct {
	Weather      WeatherSnapshotMap `json:"weather"`
	Layout       *GeneratedLayout   `json:"layout"`
	ImageDataURL string             `json:"imageDataUrl,omitempty"`
}
