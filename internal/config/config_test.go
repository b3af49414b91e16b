package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp", cfg.EmailTransport)
	assert.Equal(t, "PH", cfg.ContactRegion)
	assert.False(t, cfg.BookingAtomic)
	assert.Equal(t, pricing.KindPerSlotPromo, cfg.Pricing.Policy.Kind)
	assert.Len(t, cfg.Pricing.Slots, 16)
}

func TestLoad_PricingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: UTC
slots: ["08:00 AM", "09:00 AM", "10:00 AM"]
policy:
  kind: bundle
  standard_rate: 300
  coach_rate: 250
  bundle: {count: 3, price: 1000}
`), 0o600))

	t.Setenv("PRICING_FILE", path)
	t.Setenv("BOOKING_ATOMIC", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.BookingAtomic)
	assert.Equal(t, pricing.KindBundle, cfg.Pricing.Policy.Kind)
	assert.Equal(t, int64(1000), cfg.Pricing.Policy.Bundle.Price)
}

func TestLoad_BadPricingFile(t *testing.T) {
	t.Setenv("PRICING_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8080",
			DatabaseURL:    "postgres://localhost/db",
			JWTSecret:      "s3cret",
			EmailTransport: "smtp",
			SMTPHost:       "localhost",
			SMTPPort:       "25",
			Pricing:        pricing.DefaultRules(),
		}
	}
	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no port", func(c *Config) { c.Port = "" }},
		{"no database", func(c *Config) { c.DatabaseURL = "" }},
		{"default secret in production", func(c *Config) { c.Environment = "production"; c.JWTSecret = "secret-key" }},
		{"unknown transport", func(c *Config) { c.EmailTransport = "pigeon" }},
		{"ses without credentials", func(c *Config) { c.EmailTransport = "ses" }},
		{"bad pricing", func(c *Config) { c.Pricing.Policy.StandardRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
