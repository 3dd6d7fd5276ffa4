package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/shared/ai"
	"github.com/samasastudio/brutalcast/shared/storage"
	"github.com/samasastudio/brutalcast/weather"
)

// ErrCredentialMissing means no pipeline attempt was made because one or both
// API keys are absent from the keystore.
var ErrCredentialMissing = errors.New("API keys are missing")

// RateLimitError means no pipeline attempt was made because the quota for the
// current window is exhausted.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Pipeline runs one weather comparison end to end: fetch snapshots for every
// city, generate a layout, then generate an illustration. The stages are
// strictly sequential; each one's output feeds the next.
type Pipeline struct {
	weather *weather.Service
	layouts ai.LayoutGenerator
	images  ai.ImageGenerator
	quota   *storage.Quota
	keys    *storage.Keystore
}

func New(weatherSvc *weather.Service, layouts ai.LayoutGenerator, images ai.ImageGenerator, quota *storage.Quota, keys *storage.Keystore) *Pipeline {
	return &Pipeline{
		weather: weatherSvc,
		layouts: layouts,
		images:  images,
		quota:   quota,
		keys:    keys,
	}
}

// Run executes one search. Credentials and quota are checked before any work;
// the quota is incremented exactly once per attempt, before the outcome is
// known. A weather or layout failure aborts the run. An image failure does
// not: the weather data and layout remain useful without the illustration, so
// it only leaves ImageDataURL empty.
func (p *Pipeline) Run(ctx context.Context, cities []string, units models.Unit, userPrompt string) (*models.ComparisonResult, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("no cities requested")
	}
	if !units.Valid() {
		return nil, fmt.Errorf("unknown unit system %q", units)
	}
	if !p.keys.HasKeys() {
		return nil, ErrCredentialMissing
	}
	if p.quota.IsLimited() {
		return nil, &RateLimitError{ResetAt: p.quota.ResetAt()}
	}
	if err := p.quota.Increment(); err != nil {
		return nil, fmt.Errorf("failed to record rate limit attempt: %w", err)
	}

	snapshots, err := p.weather.Compare(ctx, cities, units)
	if err != nil {
		return nil, err
	}

	generated, err := p.layouts.GenerateLayout(ctx, snapshots, userPrompt, units)
	if err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		Weather: snapshots,
		Layout:  generated,
	}

	if generated.ImagePrompt != "" {
		imageURL, err := p.images.GenerateImage(ctx, generated.ImagePrompt)
		if err != nil {
			log.Printf("Warning: image generation failed, continuing without illustration: %v", err)
		} else {
			result.ImageDataURL = imageURL
		}
	}

	return result, nil
}
