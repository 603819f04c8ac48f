// Package sampledata generates synthetic practice seasons and checks a
// running ratings service against them.
package sampledata

import (
	"fmt"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
)

// Config holds configuration for a seeding run
type Config struct {
	OutDir           string        // Directory the season is written to
	Manifest         string        // Manifest filename inside OutDir
	Practices        int           // Number of practices to generate
	Players          int           // Size of the player pool
	TeamsPerPractice int           // Teams fielded at every practice
	StartDate        string        // Date of the first practice, YYYY-MM-DD
	Seed             uint64        // Seed for the random source
	BaseURL          string        // Service to verify against; empty skips verification
	Reload           bool          // POST /reload before verifying
	Timeout          time.Duration // HTTP request timeout
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Practices < 1:
		return fmt.Errorf("%w: practices must be at least 1", ErrInvalidConfig)
	case c.TeamsPerPractice < 1:
		return fmt.Errorf("%w: teams must be at least 1", ErrInvalidConfig)
	case c.Players < c.TeamsPerPractice:
		return fmt.Errorf("%w: need at least one player per team", ErrInvalidConfig)
	}
	if _, ok := rating.ParseDate(c.StartDate); !ok {
		return fmt.Errorf("%w: start date %q", ErrInvalidConfig, c.StartDate)
	}
	return nil
}

// NamedRecord is a generated practice with the manifest name it is written under.
type NamedRecord struct {
	Name   string
	Record model.PracticeRecord
}

// Totals are the per-player counters a season should produce.
type Totals struct {
	Scored int
	Reps   int
}

// Stats holds run statistics
type Stats struct {
	RunID            string
	PracticesWritten int
	PlayersGenerated int
	LeaderboardRows  int
	EntriesVerified  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
