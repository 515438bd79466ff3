package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SLOT_MINUTES", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("S3_BUCKET", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, "09:00", cfg.WorkdayStart)
	assert.Equal(t, "17:00", cfg.WorkdayEnd)
	assert.Equal(t, 5*time.Minute, cfg.AvailabilityCache)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.ReceiptsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SLOT_MINUTES", "15")
	t.Setenv("AVAILABILITY_CACHE_TTL", "90s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HOSPITAL_TIMEZONE", "Europe/Berlin")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 15, cfg.SlotMinutes)
	assert.Equal(t, 90*time.Second, cfg.AvailabilityCache)
	assert.True(t, cfg.CacheEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("SLOT_MINUTES", "abc")
	t.Setenv("AVAILABILITY_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, 5*time.Minute, cfg.AvailabilityCache)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Timezone:     "UTC",
			SlotMinutes:  30,
			WorkdayStart: "09:00",
			WorkdayEnd:   "17:00",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad start", func(c *Config) { c.WorkdayStart = "9am" }},
		{"bad end", func(c *Config) { c.WorkdayEnd = "25:00" }},
		{"inverted window", func(c *Config) { c.WorkdayStart = "18:00" }},
		{"zero slot", func(c *Config) { c.SlotMinutes = 0 }},
		{"negative due days", func(c *Config) { c.BillDueDays = -1 }},
	}

	require.NoError(t, base().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
