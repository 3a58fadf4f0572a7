// Package config owns pipeline configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Pipeline configures filter chain behaviour.
type Pipeline struct {
	// MaxReplayDepth bounds reentrant archive/object replay.
	MaxReplayDepth int `toml:"max_replay_depth" env:"RIBFLOW_MAX_REPLAY_DEPTH"`
}

// Log configures logger construction.
type Log struct {
	Level     string `toml:"level" env:"RIBFLOW_LOG_LEVEL"`
	Timestamp bool   `toml:"timestamp" env:"RIBFLOW_LOG_TIMESTAMP"`
	NoColor   bool   `toml:"no_color" env:"RIBFLOW_LOG_NOCOLOR"`
}

// Config is the full pipeline configuration.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Log      Log      `toml:"log"`
}

func Default() Config {
	return Config{
		Pipeline: Pipeline{MaxReplayDepth: 64},
		Log:      Log{Level: "info", Timestamp: true},
	}
}

// Load reads a TOML config file, applies environment overrides, defaults
// missing fields, and validates the result. An empty path loads defaults
// plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config env parse failed: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Pipeline.MaxReplayDepth == 0 {
		cfg.Pipeline.MaxReplayDepth = Default().Pipeline.MaxReplayDepth
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = Default().Log.Level
	}
}

func Validate(cfg Config) error {
	if cfg.Pipeline.MaxReplayDepth < 1 {
		return fmt.Errorf("config: max_replay_depth must be positive, got %d", cfg.Pipeline.MaxReplayDepth)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("config: unknown log level %q", cfg.Log.Level)
	}
	return nil
}
