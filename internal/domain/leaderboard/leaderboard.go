// Package leaderboard ranks players by rating and scoring percentage.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
)

// RepsTieBreak decides which way totalReps breaks a rating+pct tie.
type RepsTieBreak string

// Tie-break directions.
const (
	MoreRepsFirst  RepsTieBreak = "more"
	FewerRepsFirst RepsTieBreak = "fewer"

	// DefaultRepsTieBreak favors the player with more volume.
	DefaultRepsTieBreak = MoreRepsFirst
)

// ParseRepsTieBreak accepts "more" or "fewer" (case-insensitive); empty
// selects the default.
func ParseRepsTieBreak(s string) (RepsTieBreak, error) {
	switch RepsTieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultRepsTieBreak, nil
	case MoreRepsFirst:
		return MoreRepsFirst, nil
	case FewerRepsFirst:
		return FewerRepsFirst, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTieBreak, s)
	}
}

// Option applies a configuration option to Build.
type Option func(*builder)

type builder struct {
	tieBreak RepsTieBreak
}

// WithRepsTieBreak sets the reps tie-break direction. Unknown values are ignored.
func WithRepsTieBreak(tb RepsTieBreak) Option {
	return func(b *builder) {
		if tb == MoreRepsFirst || tb == FewerRepsFirst {
			b.tieBreak = tb
		}
	}
}

// Build rates every player and returns ranked rows.
func Build(aggs map[string]*model.PlayerAggregate, params rating.Params, opts ...Option) []model.LeaderboardRow {
	b := builder{tieBreak: DefaultRepsTieBreak}
	for _, opt := range opts {
		opt(&b)
	}

	rows := make([]model.LeaderboardRow, 0, len(aggs))
	for player, agg := range aggs {
		if agg == nil {
			continue
		}
		rows = append(rows, model.LeaderboardRow{
			Player:      player,
			TotalScored: agg.TotalScored,
			TotalReps:   agg.TotalReps,
			Pct:         model.Rate(agg.TotalScored, agg.TotalReps),
			Rating:      rating.Compute(agg.History, params),
		})
	}

	Sort(rows, b.tieBreak)
	return rows
}

// Sort orders rows and assigns 1-based ranks.
func Sort(rows []model.LeaderboardRow, tb RepsTieBreak) {
	sort.Slice(rows, func(i, j int) bool {
		return Less(rows[i], rows[j], tb)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// Less reports whether a ranks ahead of b.
func Less(a, b model.LeaderboardRow, tb RepsTieBreak) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Pct != b.Pct {
		return a.Pct > b.Pct
	}
	if a.TotalReps != b.TotalReps {
		if tb == FewerRepsFirst {
			return a.TotalReps < b.TotalReps
		}
		return a.TotalReps > b.TotalReps
	}
	return a.Player < b.Player
}

// FormatPct renders a ratio as a percentage with one decimal, e.g. "61.1%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
