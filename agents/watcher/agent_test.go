package watcher

import (
	"testing"

	"github.com/samasastudio/brutalcast/shared/config"
)

func watchableConfig() config.Config {
	return config.Config{
		Watch: config.WatchConfig{
			Cities: []string{"London", "Paris"},
			Units:  "metric",
		},
		Email: config.EmailConfig{
			SMTPServer: "smtp.example.com",
			SMTPPort:   587,
			Username:   "bot@example.com",
			Password:   "secret",
			FromEmail:  "bot@example.com",
			ToEmail:    "me@example.com",
		},
	}
}

func TestNewAgent(t *testing.T) {
	cfg := watchableConfig()
	agent := New(&cfg, nil)

	if agent.config != &cfg {
		t.Error("Agent config not set correctly")
	}
	if agent.Name() != "Weather Watch Agent" {
		t.Errorf("Expected agent name 'Weather Watch Agent', got '%s'", agent.Name())
	}
}

func TestAgentInitialize(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		expectErr bool
	}{
		{
			name:      "Valid configuration",
			mutate:    func(c *config.Config) {},
			expectErr: false,
		},
		{
			name:      "Missing watch cities",
			mutate:    func(c *config.Config) { c.Watch.Cities = nil },
			expectErr: true,
		},
		{
			name:      "Missing email username",
			mutate:    func(c *config.Config) { c.Email.Username = "" },
			expectErr: true,
		},
		{
			name:      "Missing email password",
			mutate:    func(c *config.Config) { c.Email.Password = "" },
			expectErr: true,
		},
		{
			name:      "Missing recipient",
			mutate:    func(c *config.Config) { c.Email.ToEmail = "" },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := watchableConfig()
			tt.mutate(&cfg)
			agent := New(&cfg, nil)

			err := agent.Initialize()
			hasErr := err != nil

			if hasErr != tt.expectErr {
				t.Errorf("Expected error=%v, got error=%v (%v)", tt.expectErr, hasErr, err)
			}
		})
	}
}
