// Package watcher re-runs a configured comparison on a schedule and emails
// the rendered report.
package watcher

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/layout"
	"github.com/samasastudio/brutalcast/pipeline"
	"github.com/samasastudio/brutalcast/shared/config"
	"github.com/samasastudio/brutalcast/shared/email"
)

type Agent struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	sender   *email.Sender
}

func New(cfg *config.Config, p *pipeline.Pipeline) *Agent {
	return &Agent{
		config:   cfg,
		pipeline: p,
	}
}

func (a *Agent) Name() string {
	return "Weather Watch Agent"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if err := a.config.ValidateWatch(); err != nil {
		return err
	}
	if a.sender == nil {
		a.sender = email.NewSender(&a.config.Email)
	}

	log.Printf("Watching %v (%s units)", a.config.Watch.Cities, a.config.Watch.Units)
	return nil
}

func (a *Agent) RunOnce(ctx context.Context) error {
	units := models.Unit(a.config.Watch.Units)

	result, err := a.pipeline.Run(ctx, a.config.Watch.Cities, units, a.config.Watch.Prompt)
	if err != nil {
		return fmt.Errorf("watched comparison failed: %w", err)
	}

	var body bytes.Buffer
	if err := layout.RenderReport(&body, result, units); err != nil {
		return fmt.Errorf("failed to render watch report: %w", err)
	}

	subject := fmt.Sprintf("Brutalcast Weather Watch - %s", time.Now().Format("Jan 2, 2006"))
	if err := a.sender.SendHTML(subject, body.String()); err != nil {
		return fmt.Errorf("failed to send watch report: %w", err)
	}

	log.Printf("Watch report sent: %d cities, %d components", len(result.Weather), len(result.Layout.UIComponents))
	return nil
}
