package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samasastudio/brutalcast/internal/models"
)

// The rendering adapter turns validated component descriptors plus the
// snapshot map into concrete chart/table/card specifications. Data selection
// is defensive: fields or cities the descriptor names but the data lacks are
// skipped, never rendered as garbage.

// TableSpec is a ready-to-render table: one row per selected city.
type TableSpec struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// CardSpec lists the snapshots to show as highlight cards.
type CardSpec struct {
	Title     string
	Snapshots []*models.WeatherSnapshot
}

// BarSeries holds one metric's value per city, in Categories order.
type BarSeries struct {
	Name   string
	Values []float64
}

// BarSpec compares one or more metrics across all cities.
type BarSpec struct {
	Title      string
	Categories []string
	Series     []BarSeries
}

// LineSpec is the pivoted forecast comparison. Rows are keyed by XKey plus
// one entry per city that has a forecast value for that x-axis value; a city
// with no matching value is simply absent from the row.
type LineSpec struct {
	Title  string
	XKey   string
	XUnit  string
	YUnit  string
	Cities []string
	Rows   []map[string]any
}

// ScatterPoint is one city's reading on the three selected axes.
type ScatterPoint struct {
	City    string
	X, Y, Z float64
}

// ScatterSpec plots every snapshot against three weather fields.
type ScatterSpec struct {
	Title               string
	XKey, YKey, ZKey    string
	XUnit, YUnit, ZUnit string
	Points              []ScatterPoint
}

// Ordered flattens the snapshot map into a deterministic sequence, sorted by
// the requested city spelling.
func Ordered(data models.WeatherSnapshotMap) []*models.WeatherSnapshot {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snapshots := make([]*models.WeatherSnapshot, 0, len(keys))
	for _, k := range keys {
		snapshots = append(snapshots, data[k])
	}
	return snapshots
}

// UnitSymbol maps a field name to its unit suffix under the active unit
// system. Fields matching no pattern get no suffix.
func UnitSymbol(key string, units models.Unit) string {
	switch {
	case strings.Contains(key, "temp"):
		if units == models.UnitImperial {
			return "°F"
		}
		return "°C"
	case strings.Contains(key, "wind"):
		if units == models.UnitImperial {
			return "mph"
		}
		return "m/s"
	case strings.Contains(key, "humidity"), strings.Contains(key, "chance_of_rain"):
		return "%"
	case strings.Contains(key, "pressure"):
		return "hPa"
	}
	return ""
}

var keyLabels = map[string]string{
	"city":           "City",
	"country":        "Country",
	"temp":           "Temp",
	"feels_like":     "Feels Like",
	"temp_min":       "Min Temp",
	"temp_max":       "Max Temp",
	"humidity":       "Humidity",
	"pressure":       "Pressure",
	"wind_speed":     "Wind",
	"description":    "Description",
	"icon":           "Icon",
	"sunrise":        "Sunrise",
	"sunset":         "Sunset",
	"lon":            "Longitude",
	"lat":            "Latitude",
	"day":            "Day",
	"chance_of_rain": "Rain Chance",
}

// KeyLabel returns a display label for a field name, with the unit suffix
// when the field has one.
func KeyLabel(key string, units models.Unit) string {
	label, ok := keyLabels[key]
	if !ok {
		label = key
	}
	if sym := UnitSymbol(key, units); sym != "" {
		return fmt.Sprintf("%s (%s)", label, sym)
	}
	return label
}

// filterCities selects snapshots whose requested spelling or provider-reported
// name matches one of the wanted cities, case-insensitively, preserving the
// wanted order.
func filterCities(data models.WeatherSnapshotMap, wanted []string) []*models.WeatherSnapshot {
	var selected []*models.WeatherSnapshot
	for _, want := range wanted {
		for _, key := range sortedKeys(data) {
			snap := data[key]
			if strings.EqualFold(key, want) || strings.EqualFold(snap.City, want) {
				selected = append(selected, snap)
				break
			}
		}
	}
	return selected
}

func sortedKeys(data models.WeatherSnapshotMap) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildTable selects the requested cities and data keys into a table spec.
// The city column always comes first.
func BuildTable(c models.UIComponent, data models.WeatherSnapshotMap, units models.Unit) *TableSpec {
	keys := []string{"city"}
	for _, k := range c.Props.DataKeys {
		if k != "city" {
			keys = append(keys, k)
		}
	}

	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = KeyLabel(k, units)
	}

	var rows [][]string
	for _, snap := range filterCities(data, c.Props.Cities) {
		row := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := snap.Field(k); ok {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}

	return &TableSpec{Title: c.Title, Headers: headers, Rows: rows}
}

// BuildCard selects the requested cities' snapshots for card display.
func BuildCard(c models.UIComponent, data models.WeatherSnapshotMap) *CardSpec {
	return &CardSpec{Title: c.Title, Snapshots: filterCities(data, c.Props.Cities)}
}

// BuildBar selects the named numeric fields from every snapshot, one series
// per data key across all cities. Non-numeric keys are dropped.
func BuildBar(c models.UIComponent, data models.WeatherSnapshotMap, units models.Unit) *BarSpec {
	snapshots := Ordered(data)

	categories := make([]string, len(snapshots))
	for i, snap := range snapshots {
		categories[i] = snap.City
	}

	var series []BarSeries
	for _, key := range c.Props.DataKeys {
		values := make([]float64, 0, len(snapshots))
		usable := true
		for _, snap := range snapshots {
			v, ok := snap.NumericField(key)
			if !ok {
				usable = false
				break
			}
			values = append(values, v)
		}
		if !usable {
			continue
		}
		series = append(series, BarSeries{Name: KeyLabel(key, units), Values: values})
	}

	return &BarSpec{Title: c.Title, Categories: categories, Series: series}
}

// BuildLine filters to the requested cities that carry a non-empty forecast
// and pivots their forecast sequences into one row per x-axis value.
func BuildLine(c models.UIComponent, data models.WeatherSnapshotMap, units models.Unit) *LineSpec {
	var selected []*models.WeatherSnapshot
	for _, snap := range filterCities(data, c.Props.Cities) {
		if len(snap.Forecast) > 0 {
			selected = append(selected, snap)
		}
	}

	cities := make([]string, len(selected))
	for i, snap := range selected {
		cities[i] = snap.City
	}

	return &LineSpec{
		Title:  c.Title,
		XKey:   c.Props.XAxisKey,
		XUnit:  UnitSymbol(c.Props.XAxisKey, units),
		YUnit:  UnitSymbol(c.Props.YAxisKey, units),
		Cities: cities,
		Rows:   PivotForecasts(selected, c.Props.XAxisKey, c.Props.YAxisKey, c.Props.LimitDays),
	}
}

// PivotForecasts reshapes per-city forecast sequences into rows keyed by a
// shared x-axis value, one column per city holding that city's y-axis value.
// The x-axis values come from the first city's forecast (chronological),
// truncated to limitDays. A city's value is looked up by matching x value,
// not positional index: forecasts may have gaps for a given label.
func PivotForecasts(snapshots []*models.WeatherSnapshot, xKey, yKey string, limitDays int) []map[string]any {
	if len(snapshots) == 0 {
		return nil
	}
	if limitDays <= 0 {
		limitDays = 5
	}

	reference := snapshots[0].Forecast
	if len(reference) > limitDays {
		reference = reference[:limitDays]
	}

	rows := make([]map[string]any, 0, len(reference))
	for _, ref := range reference {
		xValue, ok := ref.Field(xKey)
		if !ok {
			continue
		}
		row := map[string]any{xKey: xValue}
		for _, snap := range snapshots {
			for _, f := range snap.Forecast {
				if v, ok := f.Field(xKey); ok && v == xValue {
					if y, ok := f.Field(yKey); ok {
						row[snap.City] = y
					}
					break
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildScatter plots all snapshots against the three named numeric fields.
// Snapshots missing any of the fields are skipped.
func BuildScatter(c models.UIComponent, data models.WeatherSnapshotMap, units models.Unit) *ScatterSpec {
	spec := &ScatterSpec{
		Title: c.Title,
		XKey:  c.Props.XAxisKey,
		YKey:  c.Props.YAxisKey,
		ZKey:  c.Props.ZAxisKey,
		XUnit: UnitSymbol(c.Props.XAxisKey, units),
		YUnit: UnitSymbol(c.Props.YAxisKey, units),
		ZUnit: UnitSymbol(c.Props.ZAxisKey, units),
	}

	for _, snap := range Ordered(data) {
		x, okX := snap.NumericField(c.Props.XAxisKey)
		y, okY := snap.NumericField(c.Props.YAxisKey)
		z, okZ := snap.NumericField(c.Props.ZAxisKey)
		if !okX || !okY || !okZ {
			continue
		}
		spec.Points = append(spec.Points, ScatterPoint{City: snap.City, X: x, Y: y, Z: z})
	}
	return spec
}
