// Package aggregate folds practice records into per-player counters and histories.
package aggregate

import (
	"sort"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

// Option applies a configuration option to the fold.
type Option func(*options)

type options struct {
	unreportedTeams bool
}

// WithUnreportedTeams controls whether a team listed without a matching result
// still produces zero-rep entries for its roster. Enabled by default.
func WithUnreportedTeams(enabled bool) Option {
	return func(o *options) {
		o.unreportedTeams = enabled
	}
}

// accumulator is the state threaded through the fold.
type accumulator struct {
	players map[string]*model.PlayerAggregate
}

func newAccumulator() accumulator {
	return accumulator{players: make(map[string]*model.PlayerAggregate)}
}

func (a accumulator) credit(player, date string, reps, scores int) {
	agg, ok := a.players[player]
	if !ok {
		agg = &model.PlayerAggregate{}
		a.players[player] = agg
	}
	agg.TotalReps += reps
	agg.TotalScored += scores
	agg.History = append(agg.History, model.PlayerPracticeEntry{
		Date: date,
		Rate: model.Rate(scores, reps),
	})
}

// Aggregate returns player → aggregate for the given records. Input order does
// not affect the output: histories are sorted by (date, rate).
func Aggregate(records []model.PracticeRecord, opts ...Option) map[string]*model.PlayerAggregate {
	o := options{unreportedTeams: true}
	for _, opt := range opts {
		opt(&o)
	}

	acc := newAccumulator()
	for _, rec := range records {
		acc = fold(acc, rec, o)
	}

	for _, agg := range acc.players {
		sortHistory(agg.History)
	}
	return acc.players
}

// fold credits one practice to every rostered player.
func fold(acc accumulator, rec model.PracticeRecord, o options) accumulator {
	if rec.Malformed() {
		return acc
	}

	rosters := make(map[string][]string, len(rec.Teams))
	for _, t := range rec.Teams {
		rosters[t.TeamID] = t.Roster
	}

	reported := make(map[string]bool, len(rec.Results))
	for _, res := range rec.Results {
		reported[res.TeamID] = true
		// Unknown team ids resolve to an empty roster.
		for _, player := range rosters[res.TeamID] {
			acc.credit(player, rec.Date, res.Reps, res.Scores)
		}
	}

	if !o.unreportedTeams {
		return acc
	}
	for _, t := range rec.Teams {
		if reported[t.TeamID] {
			continue
		}
		for _, player := range t.Roster {
			acc.credit(player, rec.Date, 0, 0)
		}
	}
	return acc
}

func sortHistory(h []model.PlayerPracticeEntry) {
	sort.SliceStable(h, func(i, j int) bool {
		if h[i].Date != h[j].Date {
			return h[i].Date < h[j].Date
		}
		return h[i].Rate < h[j].Rate
	})
}
