// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat and snake_case so env vars map 1:1 (TRIBE_RATING_STEP -> rating_step).
// - New returns defaults; Load layers a YAML file and the environment on top.
package config

import (
	"runtime"

	"github.com/GTTribe/tribe-ratings/internal/domain/leaderboard"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the manifest and practice files.
	DataDir string `koanf:"data_dir"`

	// DataURL, when set, fetches the manifest and practices over HTTP instead of DataDir.
	DataURL string `koanf:"data_url"`

	// ManifestFile is the manifest name relative to DataDir or DataURL.
	ManifestFile string `koanf:"manifest_file"`

	// FetchTimeoutMS bounds a single HTTP fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// LoaderWorkers sets how many practice files are fetched concurrently.
	LoaderWorkers int `koanf:"loader_workers"`

	// Watch reloads when files in DataDir change.
	Watch bool `koanf:"watch"`

	// ReloadDebounceMS coalesces bursts of file events into one reload.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Rating engine parameters.
	RatingInitial      float64 `koanf:"rating_initial"`
	RatingStep         float64 `koanf:"rating_step"`
	RatingHalfLifeDays float64 `koanf:"rating_half_life_days"`
	RatingMu           float64 `koanf:"rating_mu"`
	RatingWidth        float64 `koanf:"rating_width"`
	RatingNeutral      float64 `koanf:"rating_neutral"`

	// RepsTieBreak is "more" or "fewer".
	RepsTieBreak string `koanf:"reps_tie_break"`

	// IncludeUnreportedTeams credits zero-rep entries to teams without a result.
	IncludeUnreportedTeams bool `koanf:"include_unreported_teams"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		DataDir:                "data",
		ManifestFile:           "manifest.json",
		FetchTimeoutMS:         10_000,
		LoaderWorkers:          runtime.NumCPU(),
		Watch:                  true,
		ReloadDebounceMS:       250,
		MaxLeaderboardLimit:    500,
		RatingInitial:          rating.DefaultInitial,
		RatingStep:             rating.DefaultStep,
		RatingHalfLifeDays:     rating.DefaultHalfLifeDays,
		RatingMu:               rating.DefaultMu,
		RatingWidth:            rating.DefaultWidth,
		RatingNeutral:          rating.DefaultNeutral,
		RepsTieBreak:           string(leaderboard.DefaultRepsTieBreak),
		IncludeUnreportedTeams: true,
	}
}

// RatingOptions converts the rating fields into engine options.
func (c *Config) RatingOptions() []rating.Option {
	return []rating.Option{
		rating.WithInitial(c.RatingInitial),
		rating.WithStep(c.RatingStep),
		rating.WithHalfLifeDays(c.RatingHalfLifeDays),
		rating.WithMu(c.RatingMu),
		rating.WithWidth(c.RatingWidth),
		rating.WithNeutral(c.RatingNeutral),
	}
}
