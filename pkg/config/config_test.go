package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "file", cfg.Rules.Source)
	assert.Equal(t, "総合科目", cfg.Rules.CompositeMarker)
	assert.Equal(t, 10*time.Minute, cfg.Progress.CacheTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RULES_SOURCE", "DATABASE")
	t.Setenv("PROGRESS_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "database", cfg.Rules.Source)
	assert.Equal(t, 90*time.Second, cfg.Progress.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}
