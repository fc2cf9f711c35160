package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "ENV", "PORT", "DATABASE_URL", "DB_LOG_LEVEL", "JWT_SECRET",
		"JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "SWEEP_ENABLED", "SWEEP_INTERVAL",
		"MEDIA_ROOT", "MEDIA_URL", "AVATAR_MAX_PX", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshTTL)
	assert.True(t, cfg.SweepEnabled)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 400, cfg.AvatarMaxPx)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "10m")
	t.Setenv("SWEEP_ENABLED", "off")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_LOG_LEVEL", "INFO")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
	assert.False(t, cfg.SweepEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.DBLogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "JWT_ACCESS_TTL", "soon"},
		{"refresh shorter than access", "JWT_REFRESH_TTL", "1m"},
		{"bad avatar size", "AVATAR_MAX_PX", "big"},
		{"bad log level", "DB_LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
