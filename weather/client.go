package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/shared/config"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Provider abstracts the two read-only weather endpoints so the snapshot
// service can be exercised against a fake in tests.
type Provider interface {
	CurrentConditions(ctx context.Context, city string, units models.Unit) (*CurrentConditions, error)
	Forecast(ctx context.Context, city string, units models.Unit) ([]models.ForecastSample, error)
}

// CurrentConditions is the provider's "current weather" response mapped to
// flat fields, before any rounding.
type CurrentConditions struct {
	City        string
	Country     string
	Temp        float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    int
	Pressure    int
	WindSpeed   float64
	Description string
	Icon        string
	Sunrise     int64
	Sunset      int64
	Lon         float64
	Lat         float64
}

// Client talks to the OpenWeatherMap API. Outbound calls go through a
// politeness limiter and a circuit breaker; neither retries a failed call.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "openweathermap",
		}),
	}
}

// CurrentConditions fetches current weather for a city by name.
func (c *Client) CurrentConditions(ctx context.Context, city string, units models.Unit) (*CurrentConditions, error) {
	body, err := c.get(ctx, "/weather", city, units)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Coord struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"coord"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode current weather response: %w", err)
	}

	current := &CurrentConditions{
		City:      resp.Name,
		Country:   resp.Sys.Country,
		Temp:      resp.Main.Temp,
		FeelsLike: resp.Main.FeelsLike,
		TempMin:   resp.Main.TempMin,
		TempMax:   resp.Main.TempMax,
		Humidity:  resp.Main.Humidity,
		Pressure:  resp.Main.Pressure,
		WindSpeed: resp.Wind.Speed,
		Sunrise:   resp.Sys.Sunrise,
		Sunset:    resp.Sys.Sunset,
		Lon:       resp.Coord.Lon,
		Lat:       resp.Coord.Lat,
	}
	if len(resp.Weather) > 0 {
		current.Description = resp.Weather[0].Description
		current.Icon = resp.Weather[0].Icon
	}
	return current, nil
}

// Forecast fetches the 5-day/3-hour forecast list for a city by name.
func (c *Client) Forecast(ctx context.Context, city string, units models.Unit) ([]models.ForecastSample, error) {
	body, err := c.get(ctx, "/forecast", city, units)
	if err != nil {
		return nil, err
	}

	var resp struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Pop float64 `json:"pop"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	samples := make([]models.ForecastSample, 0, len(resp.List))
	for _, item := range resp.List {
		samples = append(samples, models.ForecastSample{
			Timestamp: item.Dt,
			Temp:      item.Main.Temp,
			Humidity:  item.Main.Humidity,
			Pop:       item.Pop,
		})
	}
	return samples, nil
}

// get performs one request against an endpoint and returns the body on a 2xx
// status. Non-2xx responses surface the provider's message field.
func (c *Client) get(ctx context.Context, endpoint, city string, units models.Unit) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{}
	params.Add("q", city)
	params.Add("units", string(units))
	params.Add("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s", providerMessage(body, resp.StatusCode))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// providerMessage extracts the human-readable message OpenWeatherMap puts in
// error bodies, falling back to the status code.
func providerMessage(body []byte, status int) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("weather API returned status %d", status)
}
