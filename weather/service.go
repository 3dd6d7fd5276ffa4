package weather

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/samasastudio/brutalcast/internal/models"

	"golang.org/x/sync/errgroup"
)

// Service builds per-city weather snapshots and fans them out across cities.
type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Snapshot fetches current conditions and the forecast for one city, both
// concurrently, and merges them. Both requests must succeed.
func (s *Service) Snapshot(ctx context.Context, city string, units models.Unit) (*models.WeatherSnapshot, error) {
	var (
		current *CurrentConditions
		samples []models.ForecastSample
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.provider.CurrentConditions(ctx, city, units)
		if err != nil {
			return fmt.Errorf("could not fetch weather for %q: %w", city, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		samples, err = s.provider.Forecast(ctx, city, units)
		if err != nil {
			return fmt.Errorf("could not fetch forecast for %q: %w", city, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.WeatherSnapshot{
		City:        current.City,
		Country:     current.Country,
		Temp:        int(math.Round(current.Temp)),
		FeelsLike:   int(math.Round(current.FeelsLike)),
		TempMin:     int(math.Round(current.TempMin)),
		TempMax:     int(math.Round(current.TempMax)),
		Humidity:    current.Humidity,
		Pressure:    current.Pressure,
		WindSpeed:   math.Round(current.WindSpeed*10) / 10,
		Description: current.Description,
		Icon:        current.Icon,
		Sunrise:     current.Sunrise,
		Sunset:      current.Sunset,
		Lon:         current.Lon,
		Lat:         current.Lat,
		Forecast:    AggregateDaily(samples),
	}, nil
}

// Compare builds snapshots for every requested city concurrently. Any single
// failure fails the whole group; no partial map is returned. Each snapshot is
// keyed by the originally requested spelling when it matches the provider's
// reported name case-insensitively, guarding against the provider normalizing
// e.g. "new york" to "New York".
func (s *Service) Compare(ctx context.Context, cities []string, units models.Unit) (models.WeatherSnapshotMap, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("no cities requested")
	}

	snapshots := make([]*models.WeatherSnapshot, len(cities))
	g, ctx := errgroup.WithContext(ctx)
	for i, city := range cities {
		g.Go(func() error {
			snap, err := s.Snapshot(ctx, city, units)
			if err != nil {
				return err
			}
			snapshots[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(models.WeatherSnapshotMap, len(cities))
	for _, snap := range snapshots {
		key := snap.City
		for _, requested := range cities {
			if strings.EqualFold(requested, snap.City) {
				key = requested
				break
			}
		}
		result[key] = snap
	}
	return result, nil
}
