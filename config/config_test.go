package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"shopee", "pchome", "momo", "1688"}, cfg.Platforms)
	assert.False(t, cfg.LiveMode)
	assert.True(t, cfg.RespectRobots)
	assert.Equal(t, "normal", cfg.DelayProfile)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PRICELENS_PLATFORMS", "shopee, momo")
	t.Setenv("PRICELENS_LIVE", "true")
	t.Setenv("PRICELENS_RATE_PER_SECOND", "0.5")
	t.Setenv("PRICELENS_RESPECT_ROBOTS", "false")
	t.Setenv("DATABASE_URL", "postgres://user:pw@host/db")
	t.Setenv("PORT", "9090")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, []string{"shopee", "momo"}, cfg.Platforms)
	assert.True(t, cfg.LiveMode)
	assert.Equal(t, 0.5, cfg.RatePerSecond)
	assert.False(t, cfg.RespectRobots)
	assert.Equal(t, "postgres://user:pw@host/db", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
}

func TestLoadFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("PRICELENS_RATE_PER_SECOND", "not-a-number")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, 2.0, cfg.RatePerSecond)
}
