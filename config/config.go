package config

import (
	"fmt"

	"github.com/csmith/recordnise/matcher"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// File mirrors the matching section of a TOML config file. Unset values fall back
// to matcher.DefaultConfig.
type File struct {
	Keys         []matcher.FieldWeight `koanf:"keys"`
	Threshold    *float64              `koanf:"threshold"`     // largest distance accepted (0-1, default: 0.7)
	BubbleCutoff *float64              `koanf:"bubble_cutoff"` // score gap for duration re-ordering (default: 0.16)
	Metric       string                `koanf:"metric"`        // "levenshtein" or "wagner-fischer"
}

// Load reads the matcher configuration from a TOML file. An empty path gives the defaults.
func Load(path string) (matcher.Config, error) {
	if path == "" {
		return matcher.DefaultConfig(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return matcher.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	if err := k.Unmarshal("", &f); err != nil {
		return matcher.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg := f.Matcher()
	if err := cfg.Validate(); err != nil {
		return matcher.Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Matcher returns the matcher configuration with defaults applied
func (f File) Matcher() matcher.Config {
	cfg := matcher.DefaultConfig()

	if len(f.Keys) > 0 {
		cfg.Keys = f.Keys
	}
	if f.Threshold != nil {
		cfg.Threshold = *f.Threshold
	}
	if f.BubbleCutoff != nil {
		cfg.BubbleCutoff = *f.BubbleCutoff
	}
	if f.Metric != "" {
		cfg.Metric = f.Metric
	}

	return cfg
}
