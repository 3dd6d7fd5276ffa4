package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samasastudio/brutalcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshots() models.WeatherSnapshotMap {
	return models.WeatherSnapshotMap{
		"london": {
			City: "London", Country: "GB",
			Temp: 10, FeelsLike: 8, TempMin: 7, TempMax: 12,
			Humidity: 80, Pressure: 1012, WindSpeed: 5.1,
			Description: "light rain", Icon: "10d",
			Forecast: []models.DailyForecast{
				{Day: "Mon", Temp: 10, Humidity: 78, ChanceOfRain: 60},
				{Day: "Tue", Temp: 12, Humidity: 70, ChanceOfRain: 30},
			},
		},
		"Paris": {
			City: "Paris", Country: "FR",
			Temp: 14, FeelsLike: 13, TempMin: 11, TempMax: 16,
			Humidity: 60, Pressure: 1018, WindSpeed: 3.4,
			Description: "clear sky", Icon: "01d",
			Forecast: []models.DailyForecast{
				{Day: "Mon", Temp: 14, Humidity: 55, ChanceOfRain: 5},
			},
		},
	}
}

func TestUnitSymbol(t *testing.T) {
	tests := []struct {
		key      string
		units    models.Unit
		expected string
	}{
		{"temp", models.UnitImperial, "°F"},
		{"temp_min", models.UnitMetric, "°C"},
		{"feels_like", models.UnitMetric, ""},
		{"wind_speed", models.UnitImperial, "mph"},
		{"wind_speed", models.UnitMetric, "m/s"},
		{"humidity", models.UnitMetric, "%"},
		{"chance_of_rain", models.UnitImperial, "%"},
		{"pressure", models.UnitMetric, "hPa"},
		{"description", models.UnitMetric, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UnitSymbol(tt.key, tt.units), "key %q units %q", tt.key, tt.units)
	}
}

func TestBuildTableCityColumnFirstAndOrderPreserved(t *testing.T) {
	spec := BuildTable(models.UIComponent{
		Type:  models.ComponentTable,
		Title: "Overview",
		Props: models.ComponentProps{
			Cities:   []string{"paris", "LONDON"},
			DataKeys: []string{"temp", "humidity"},
		},
	}, testSnapshots(), models.UnitMetric)

	assert.Equal(t, []string{"City", "Temp (°C)", "Humidity (%)"}, spec.Headers)
	require.Len(t, spec.Rows, 2)
	// Cities come out in the order the descriptor asked for, matched
	// case-insensitively against both the requested and provider spellings.
	assert.Equal(t, []string{"Paris", "14", "60"}, spec.Rows[0])
	assert.Equal(t, []string{"London", "10", "80"}, spec.Rows[1])
}

func TestBuildTableSkipsUnknownCities(t *testing.T) {
	spec := BuildTable(models.UIComponent{
		Type:  models.ComponentTable,
		Props: models.ComponentProps{Cities: []string{"London", "Atlantis"}, DataKeys: []string{"temp"}},
	}, testSnapshots(), models.UnitMetric)

	require.Len(t, spec.Rows, 1)
	assert.Equal(t, "London", spec.Rows[0][0])
}

func TestBuildCardFiltersCaseInsensitively(t *testing.T) {
	spec := BuildCard(models.UIComponent{
		Type:  models.ComponentCard,
		Title: "Highlights",
		Props: models.ComponentProps{Cities: []string{"PARIS"}},
	}, testSnapshots())

	require.Len(t, spec.Snapshots, 1)
	assert.Equal(t, "Paris", spec.Snapshots[0].City)
}

func TestBuildBarDropsNonNumericKeys(t *testing.T) {
	spec := BuildBar(models.UIComponent{
		Type:  models.ComponentBarChart,
		Title: "Temps",
		Props: models.ComponentProps{DataKeys: []string{"temp", "description", "humidity"}},
	}, testSnapshots(), models.UnitMetric)

	// Snapshots are ordered by requested spelling: "Paris" sorts before
	// "london" (uppercase first), so categories follow that order.
	assert.Equal(t, []string{"Paris", "London"}, spec.Categories)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "Temp (°C)", spec.Series[0].Name)
	assert.Equal(t, []float64{14, 10}, spec.Series[0].Values)
	assert.Equal(t, "Humidity (%)", spec.Series[1].Name)
	assert.Equal(t, []float64{60, 80}, spec.Series[1].Values)
}

func TestPivotForecastsMatchesByXValue(t *testing.T) {
	snapshots := []*models.WeatherSnapshot{
		{City: "London", Forecast: []models.DailyForecast{
			{Day: "Mon", Temp: 10},
			{Day: "Tue", Temp: 12},
		}},
		{City: "Paris", Forecast: []models.DailyForecast{
			{Day: "Mon", Temp: 20},
		}},
	}

	rows := PivotForecasts(snapshots, "day", "temp", 5)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"day": "Mon", "London": 10, "Paris": 20}, rows[0])
	// Paris has no Tue sample, so the Tue row carries London only.
	assert.Equal(t, map[string]any{"day": "Tue", "London": 12}, rows[1])
}

func TestPivotForecastsHonorsLimitDays(t *testing.T) {
	snapshots := []*models.WeatherSnapshot{
		{City: "London", Forecast: []models.DailyForecast{
			{Day: "Mon", Temp: 10},
			{Day: "Tue", Temp: 11},
			{Day: "Wed", Temp: 12},
		}},
	}

	rows := PivotForecasts(snapshots, "day", "temp", 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mon", rows[0]["day"])
	assert.Equal(t, "Tue", rows[1]["day"])
}

func TestBuildLineDropsCitiesWithoutForecast(t *testing.T) {
	data := testSnapshots()
	data["Paris"].Forecast = nil

	spec := BuildLine(models.UIComponent{
		Type:  models.ComponentLineChart,
		Title: "Forecast",
		Props: models.ComponentProps{
			XAxisKey: "day", YAxisKey: "temp",
			Cities: []string{"london", "Paris"}, LimitDays: 5,
		},
	}, data, models.UnitMetric)

	assert.Equal(t, []string{"London"}, spec.Cities)
	require.Len(t, spec.Rows, 2)
	assert.Equal(t, 10, spec.Rows[0]["London"])
}

func TestBuildScatterSkipsIncompleteSnapshots(t *testing.T) {
	data := testSnapshots()
	data["berlin"] = &models.WeatherSnapshot{City: "Berlin", Temp: 18, Humidity: 40}

	spec := BuildScatter(models.UIComponent{
		Type:  models.ComponentScatterChart,
		Title: "Spread",
		Props: models.ComponentProps{XAxisKey: "temp", YAxisKey: "humidity", ZAxisKey: "description"},
	}, data, models.UnitMetric)

	// description is not numeric, so nothing plots.
	assert.Empty(t, spec.Points)

	spec = BuildScatter(models.UIComponent{
		Type:  models.ComponentScatterChart,
		Title: "Spread",
		Props: models.ComponentProps{XAxisKey: "temp", YAxisKey: "humidity", ZAxisKey: "pressure"},
	}, data, models.UnitMetric)

	// Ordered by requested spelling: "Paris" < "berlin" < "london".
	require.Len(t, spec.Points, 3)
	assert.Equal(t, "Paris", spec.Points[0].City)
	assert.Equal(t, "Berlin", spec.Points[1].City)
	assert.Equal(t, 0.0, spec.Points[1].Z)
}

func TestRenderReportIncludesAllComponents(t *testing.T) {
	result := &models.ComparisonResult{
		Weather: testSnapshots(),
		Layout: &models.GeneratedLayout{
			Blurb:       "London drips, Paris preens.",
			ImagePrompt: "poster",
			UIComponents: []models.UIComponent{
				{Type: models.ComponentTable, Title: "Side by Side", Props: models.ComponentProps{
					Cities: []string{"london", "Paris"}, DataKeys: []string{"temp", "humidity"},
				}},
				{Type: models.ComponentCard, Title: "Highlights", Props: models.ComponentProps{
					Cities: []string{"Paris"},
				}},
				{Type: models.ComponentLineChart, Title: "Week Ahead", Props: models.ComponentProps{
					XAxisKey: "day", YAxisKey: "temp", Cities: []string{"london", "Paris"}, LimitDays: 5,
				}},
			},
		},
		ImageDataURL: "data:image/jpeg;base64,dGVzdA==",
	}

	var buf bytes.Buffer
	err := RenderReport(&buf, result, models.UnitMetric)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "London drips, Paris preens.")
	assert.Contains(t, html, "data:image/jpeg;base64,dGVzdA==")
	assert.Contains(t, html, "Side by Side")
	assert.Contains(t, html, "Highlights")
	assert.True(t, strings.Contains(html, "Week Ahead"), "chart page should carry the line chart title")
}
