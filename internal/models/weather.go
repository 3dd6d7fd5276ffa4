package models

// Unit selects the measurement system requested from the weather provider.
type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// Valid reports whether the unit is one of the supported systems.
func (u Unit) Valid() bool {
	return u == UnitMetric || u == UnitImperial
}

// ForecastSample is a single 3-hour forecast reading as returned by the
// provider's forecast endpoint, before any daily aggregation.
type ForecastSample struct {
	Timestamp int64   `json:"dt"`       // Unix seconds
	Temp      float64 `json:"temp"`     // provider units
	Humidity  int     `json:"humidity"` // percent
	Pop       float64 `json:"pop"`      // probability of precipitation, 0.0-1.0
}

// DailyForecast is one aggregated day of forecast data. At most five are
// produced per city, chronologically ascending, with distinct day labels.
type DailyForecast struct {
	Day          string `json:"day"`
	Temp         int    `json:"temp"`
	Humidity     int    `json:"humidity"`
	ChanceOfRain int    `json:"chance_of_rain"`
}

// Field returns the named forecast value. The key names match the JSON
// field names, which is also what the layout service refers to.
func (d DailyForecast) Field(key string) (any, bool) {
	switch key {
	case "day":
		return d.Day, true
	case "temp":
		return d.Temp, true
	case "humidity":
		return d.Humidity, true
	case "chance_of_rain":
		return d.ChanceOfRain, true
	}
	return nil, false
}

// WeatherSnapshot bundles one city's current conditions with its aggregated
// daily forecast. It is built once per search and never mutated.
type WeatherSnapshot struct {
	City        string          `json:"city"`
	Country     string          `json:"country"`
	Temp        int             `json:"temp"`
	FeelsLike   int             `json:"feels_like"`
	TempMin     int             `json:"temp_min"`
	TempMax     int             `json:"temp_max"`
	Humidity    int             `json:"humidity"`
	Pressure    int             `json:"pressure"`
	WindSpeed   float64         `json:"wind_speed"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Sunrise     int64           `json:"sunrise"`
	Sunset      int64           `json:"sunset"`
	Lon         float64         `json:"lon"`
	Lat         float64         `json:"lat"`
	Forecast    []DailyForecast `json:"forecast,omitempty"`
}

// Field returns the named snapshot value. Key names match the JSON field
// names used when the snapshot is serialized for the layout service.
func (w *WeatherSnapshot) Field(key string) (any, bool) {
	switch key {
	case "city":
		return w.City, true
	case "country":
		return w.Country, true
	case "temp":
		return w.Temp, true
	case "feels_like":
		return w.FeelsLike, true
	case "temp_min":
		return w.TempMin, true
	case "temp_max":
		return w.TempMax, true
	case "humidity":
		return w.Humidity, true
	case "pressure":
		return w.Pressure, true
	case "wind_speed":
		return w.WindSpeed, true
	case "description":
		return w.Description, true
	case "icon":
		return w.Icon, true
	case "sunrise":
		return w.Sunrise, true
	case "sunset":
		return w.Sunset, true
	case "lon":
		return w.Lon, true
	case "lat":
		return w.Lat, true
	}
	return nil, false
}

// NumericField returns the named snapshot value as a float64, or false when
// the field does not exist or is not numeric.
func (w *WeatherSnapshot) NumericField(key string) (float64, bool) {
	v, ok := w.Field(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// WeatherSnapshotMap maps the originally requested city spelling to its
// snapshot. Consumers treat it as unordered and sort only for rendering.
type WeatherSnapshotMap map[string]*WeatherSnapshot
