package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/GTTribe/tribe-ratings/internal/domain/leaderboard"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "TRIBE_"
	EnvConfigFile = "TRIBE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if TRIBE_CONFIG is set
//  3. env (prefix TRIBE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TRIBE_RATING_STEP -> rating_step
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config file path itself is not a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataURL == "" && strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("%w: data_dir or data_url must be set", ErrInvalidConfig)
	case strings.TrimSpace(c.ManifestFile) == "":
		return fmt.Errorf("%w: manifest_file must not be empty", ErrInvalidConfig)
	case c.LoaderWorkers < 1:
		return fmt.Errorf("%w: loader_workers must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case !finite(c.RatingInitial, c.RatingStep, c.RatingHalfLifeDays, c.RatingMu, c.RatingWidth, c.RatingNeutral):
		return fmt.Errorf("%w: rating parameters must be finite numbers", ErrInvalidConfig)
	case c.RatingWidth <= 0:
		return fmt.Errorf("%w: rating_width must be positive", ErrInvalidConfig)
	case c.RatingNeutral <= 0 || c.RatingNeutral >= 1:
		return fmt.Errorf("%w: rating_neutral must be in (0,1)", ErrInvalidConfig)
	}
	if _, err := leaderboard.ParseRepsTieBreak(c.RepsTieBreak); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
