package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	formatText = "text"
	formatWire = "wire"
)

// runConfig is the tool-level profile: stream endpoints and formats.
// Pipeline behaviour lives in the shared config file (ConfigPath).
type runConfig struct {
	In         string
	Out        string
	InFormat   string
	OutFormat  string
	ConfigPath string
}

type fileProfile struct {
	In         string `toml:"in"`
	Out        string `toml:"out"`
	InFormat   string `toml:"in_format"`
	OutFormat  string `toml:"out_format"`
	ConfigPath string `toml:"config"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		InFormat:  formatText,
		OutFormat: formatText,
	}
}

func loadRunProfile(path string, cfg runConfig) (runConfig, error) {
	var raw fileProfile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load profile: %w", err)
	}
	if meta.IsDefined("in") {
		cfg.In = strings.TrimSpace(raw.In)
	}
	if meta.IsDefined("out") {
		cfg.Out = strings.TrimSpace(raw.Out)
	}
	if meta.IsDefined("in_format") {
		cfg.InFormat = strings.TrimSpace(raw.InFormat)
	}
	if meta.IsDefined("out_format") {
		cfg.OutFormat = strings.TrimSpace(raw.OutFormat)
	}
	if meta.IsDefined("config") {
		cfg.ConfigPath = strings.TrimSpace(raw.ConfigPath)
	}
	return cfg, nil
}

func validateRunConfig(cfg runConfig) error {
	if cfg.InFormat != formatText && cfg.InFormat != formatWire {
		return fmt.Errorf("unknown input format %q", cfg.InFormat)
	}
	if cfg.OutFormat != formatText && cfg.OutFormat != formatWire {
		return fmt.Errorf("unknown output format %q", cfg.OutFormat)
	}
	return nil
}
