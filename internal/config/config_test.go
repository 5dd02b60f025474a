package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "CORS_ALLOWED_ORIGINS", "METRICS_ENABLED", "H2C_ENABLED", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.H2CEnabled)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "Production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/loara?sslmode=disable")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("H2C_ENABLED", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/loara?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.H2CEnabled)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "loud"},
		{"bad bool", "METRICS_ENABLED", "maybe"},
		{"bad duration", "SHUTDOWN_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
