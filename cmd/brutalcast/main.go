package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/samasastudio/brutalcast/agents/watcher"
	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/pipeline"
	"github.com/samasastudio/brutalcast/server"
	"github.com/samasastudio/brutalcast/shared/ai"
	"github.com/samasastudio/brutalcast/shared/config"
	"github.com/samasastudio/brutalcast/shared/monitoring"
	"github.com/samasastudio/brutalcast/shared/scheduler"
	"github.com/samasastudio/brutalcast/shared/storage"
	"github.com/samasastudio/brutalcast/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	keys, err := storage.NewKeystore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open keystore: %v", err)
	}
	// Config and env can seed or refresh the stored credentials.
	if cfg.Weather.APIKey != "" || cfg.AI.GeminiAPIKey != "" {
		if err := keys.SetKeys(cfg.Weather.APIKey, cfg.AI.GeminiAPIKey); err != nil {
			log.Fatalf("Failed to store credentials: %v", err)
		}
	}

	var quotaStore storage.QuotaStore
	if cfg.RateLimit.RedisAddr != "" {
		quotaStore, err = storage.NewRedisQuotaStore(cfg.RateLimit.RedisAddr)
	} else {
		quotaStore, err = storage.NewFileQuotaStore(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("Failed to open rate limit store: %v", err)
	}
	quota, err := storage.NewQuota(cfg.RateLimit.Limit, cfg.RateLimit.Window, quotaStore)
	if err != nil {
		log.Fatalf("Failed to load rate limit state: %v", err)
	}

	weatherCfg := cfg.Weather
	weatherCfg.APIKey = keys.OpenWeatherKey()
	weatherSvc := weather.NewService(weather.NewClient(&weatherCfg))

	aiCfg := cfg.AI
	aiCfg.GeminiAPIKey = keys.GeminiKey()
	aiClient, err := ai.NewClient(ctx, &aiCfg)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}

	p := pipeline.New(weatherSvc, aiClient, aiClient, quota, keys)
	monitor := monitoring.NewMonitor()

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "--once", "once":
		runOnce(ctx, cfg, p)
	case "watch":
		agent := watcher.New(cfg, p)
		s := scheduler.New(cfg.Watch.Schedule, monitor, agent)
		if len(os.Args) > 2 && os.Args[2] == "--now" {
			if err := agent.Initialize(); err != nil {
				log.Fatalf("Failed to initialize agent: %v", err)
			}
			if err := s.RunOnce(ctx); err != nil {
				log.Fatalf("Failed to run: %v", err)
			}
			return
		}
		fmt.Println("Starting watch scheduler...")
		if err := s.Start(ctx); err != nil {
			log.Fatalf("Scheduler failed: %v", err)
		}
	case "serve":
		srv := server.New(p, quota, monitor)
		if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	default:
		log.Fatalf("Unknown mode %q (expected serve, watch, or --once)", mode)
	}
}

// runOnce executes the configured watch comparison a single time and prints
// the result as JSON.
func runOnce(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline) {
	if len(cfg.Watch.Cities) == 0 {
		log.Fatalf("No cities configured (watch.cities)")
	}

	result, err := p.Run(ctx, cfg.Watch.Cities, models.Unit(cfg.Watch.Units), cfg.Watch.Prompt)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
