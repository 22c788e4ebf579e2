package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LINEUP_CONFIG is set
//  3. env (prefix LINEUP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LINEUP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LINEUP_ADDR, LINEUP_MAX_FOREIGN, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("LINEUP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "lineup_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configs the engine cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RosterSize <= 0:
		return fmt.Errorf("%w: roster_size must be positive", ErrInvalidConfig)
	case c.MaxForeign < 0:
		return fmt.Errorf("%w: max_foreign must not be negative", ErrInvalidConfig)
	case c.AnchorThreshold < 1:
		return fmt.Errorf("%w: anchor_threshold must be at least 1", ErrInvalidConfig)
	case c.MinFemale >= 0 && c.MaxFemale >= 0 && c.MinFemale > c.MaxFemale:
		return fmt.Errorf("%w: min_female exceeds max_female", ErrInvalidConfig)
	}
	return nil
}
