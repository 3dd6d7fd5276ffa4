package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Weather   WeatherConfig   `yaml:"weather"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Server    ServerConfig    `yaml:"server"`
	Email     EmailConfig     `yaml:"email"`
	Watch     WatchConfig     `yaml:"watch"`
	DataDir   string          `yaml:"data_dir"`
}

type WeatherConfig struct {
	APIKey            string  `yaml:"api_key" env:"OPENWEATHER_API_KEY"`
	BaseURL           string  `yaml:"base_url"`
	Units             string  `yaml:"units"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	LayoutModel  string `yaml:"layout_model"`
	ImageModel   string `yaml:"image_model"`
}

type RateLimitConfig struct {
	Limit     int           `yaml:"limit"`
	Window    time.Duration `yaml:"window"`
	RedisAddr string        `yaml:"redis_addr"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// WatchConfig describes the saved comparison the watch scheduler re-runs.
type WatchConfig struct {
	Schedule string   `yaml:"schedule"`
	Cities   []string `yaml:"cities"`
	Prompt   string   `yaml:"prompt"`
	Units    string   `yaml:"units"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file: run on env vars and defaults alone.
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.Weather.Units == "" {
		c.Weather.Units = "imperial"
	}
	if c.Weather.RequestsPerSecond == 0 {
		c.Weather.RequestsPerSecond = 5
	}
	if c.Weather.Burst == 0 {
		c.Weather.Burst = 10
	}
	if c.AI.LayoutModel == "" {
		c.AI.LayoutModel = "gemini-2.5-flash"
	}
	if c.AI.ImageModel == "" {
		c.AI.ImageModel = "imagen-4.0-generate-001"
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 10
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Hour
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "0 7 * * *" // Daily at 7 AM
	}
	if c.Watch.Units == "" {
		c.Watch.Units = c.Weather.Units
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
}

func (c *Config) validate() error {
	if c.Weather.Units != "metric" && c.Weather.Units != "imperial" {
		return fmt.Errorf("weather units must be 'metric' or 'imperial', got %q", c.Weather.Units)
	}
	if c.RateLimit.Limit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// ValidateWatch checks the fields only the watch scheduler needs.
func (c *Config) ValidateWatch() error {
	if len(c.Watch.Cities) == 0 {
		return fmt.Errorf("watch cities must be configured (watch.cities)")
	}
	if c.Email.Username == "" {
		return fmt.Errorf("email username is required for watch mode (set EMAIL_USERNAME or email.username)")
	}
	if c.Email.Password == "" {
		return fmt.Errorf("email password is required for watch mode (set EMAIL_PASSWORD or email.password)")
	}
	if c.Email.ToEmail == "" {
		return fmt.Errorf("email recipient is required for watch mode (email.to_email)")
	}
	return nil
}
