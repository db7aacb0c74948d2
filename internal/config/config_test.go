package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TARGET_REGION", "LOG_LEVEL", "LOG_FORMAT", "INIT_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.TargetRegion)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.InitTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_REGION", " eu-west-1 ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("INIT_TIMEOUT", "3s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.TargetRegion)
	assert.Equal(t, slog.LevelDebug, cfg.GetLogLevel())
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.InitTimeout)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "unknown log format",
			key:   "LOG_FORMAT",
			value: "xml",
		},
		{
			name:  "negative init timeout",
			key:   "INIT_TIMEOUT",
			value: "-1s",
		},
		{
			name:  "blank target region",
			key:   "TARGET_REGION",
			value: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{
			name:     "DEBUG level",
			logLevel: "DEBUG",
			expected: slog.LevelDebug,
		},
		{
			name:     "WARN level",
			logLevel: "WARN",
			expected: slog.LevelWarn,
		},
		{
			name:     "ERROR level",
			logLevel: "ERROR",
			expected: slog.LevelError,
		},
		{
			name:     "invalid level defaults to INFO",
			logLevel: "INVALID",
			expected: slog.LevelInfo,
		},
		{
			name:     "empty string defaults to INFO",
			logLevel: "",
			expected: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetLogLevel())
		})
	}
}
