package sampledata

import (
	"context"
	"fmt"
	"time"

	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/google/uuid"
)

// Run generates a season, writes it to cfg.OutDir and, when cfg.BaseURL is
// set, verifies the service's leaderboard against it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.Get().Named("seed")

	if cfg.OutDir == "" {
		cfg.OutDir = "season_" + stats.StartTime.Format("20060102_150405")
	}

	log.Info(ctx, "starting seed run",
		logger.String("runId", stats.RunID),
		logger.String("outDir", cfg.OutDir),
		logger.Int("practices", cfg.Practices),
		logger.Int("players", cfg.Players),
		logger.Int("teams", cfg.TeamsPerPractice),
		logger.Int64("seed", int64(cfg.Seed)),
		logger.String("baseURL", cfg.BaseURL))

	// Step 1: Generate the season
	recs, err := Generate(cfg)
	if err != nil {
		return stats, fmt.Errorf("season generation failed: %w", err)
	}
	want := ExpectedTotals(recs)
	stats.PlayersGenerated = len(want)

	// Step 2: Write records and manifest
	if _, err := WriteSeason(ctx, cfg.OutDir, cfg.Manifest, recs); err != nil {
		return stats, fmt.Errorf("writing season failed: %w", err)
	}
	stats.PracticesWritten = len(recs)

	// Step 3: Verify against a running service
	if cfg.BaseURL != "" {
		if err := verifyService(ctx, cfg, want, stats); err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func verifyService(ctx context.Context, cfg *Config, want map[string]Totals, stats *Stats) error {
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	if cfg.Reload {
		if err := client.Reload(ctx); err != nil {
			return fmt.Errorf("reload failed: %w", err)
		}
	}
	if err := client.Ready(ctx); err != nil {
		return fmt.Errorf("service readiness check failed: %w", err)
	}

	board, err := client.Leaderboard(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardRows = len(board)

	n, err := VerifyLeaderboard(board, want)
	stats.EntriesVerified = n
	return err
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.String("runId", stats.RunID),
		logger.Int("practicesWritten", stats.PracticesWritten),
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("leaderboardRows", stats.LeaderboardRows),
		logger.Int("entriesVerified", stats.EntriesVerified),
		logger.Duration("duration", stats.Duration))
}
