// Package config loads the runtime configuration of the shutdown functions
// from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/younsl/ec2stop/pkg/utils"
)

// Log output formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds every setting read from the environment.
type Config struct {
	// TargetRegion is the region stopped by the single-region function.
	TargetRegion string        `mapstructure:"target_region" validate:"required"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format" validate:"oneof=json text"`
	InitTimeout  time.Duration `mapstructure:"init_timeout" validate:"gt=0s"`
}

var validate = validator.New()

// Load reads the configuration from environment variables.
// Unset or empty variables fall back to their defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.TargetRegion = strings.TrimSpace(cfg.TargetRegion)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads the configuration and exits on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target_region", utils.GetDefaultRegion())
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", LogFormatJSON)
	v.SetDefault("init_timeout", "10s")
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"TARGET_REGION",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"INIT_TIMEOUT",
	}

	for _, envVar := range envVars {
		_ = v.BindEnv(strings.ToLower(envVar), envVar)
	}
}
