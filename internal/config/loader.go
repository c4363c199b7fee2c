package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TRUSTLINE_CONFIG is set
//  3. env (prefix TRUSTLINE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TRUSTLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TRUSTLINE_ADDR, TRUSTLINE_QUEUE_SIZE, ...
	// Map env keys like TRUSTLINE_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TRUSTLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "trustline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window_size must be at least 1", ErrInvalidConfig)
	}
	sum := c.UptimeWeight + c.SpeedWeight + c.AccuracyWeight + c.AgeWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: score weights must sum to 1, got %v", ErrInvalidConfig, sum)
	}
	return nil
}
