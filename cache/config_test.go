package cache

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TTL != 5*time.Minute {
		t.Errorf("expected default TTL of 5m, got %v", cfg.TTL)
	}
	if cfg.Addr != "" {
		t.Errorf("expected default Addr to select the in-memory backend, got %q", cfg.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"redis addr", func(c *Config) { c.Addr = "localhost:6379" }, false},
		{"missing ttl", func(c *Config) { c.TTL = 0 }, true},
		{"sub-second ttl", func(c *Config) { c.TTL = 50 * time.Millisecond }, true},
		{"negative db", func(c *Config) { c.DB = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
