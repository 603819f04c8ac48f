package service

import (
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	"github.com/GTTribe/tribe-ratings/internal/domain/leaderboard"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRecordStore sets where practice records are read from.
func WithRecordStore(store records.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRatingParams sets the rating engine parameters. A zero ReferenceDate
// means each reload decays against the clock's current date.
func WithRatingParams(p rating.Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithRepsTieBreak sets the total-reps tie-break direction.
func WithRepsTieBreak(tb leaderboard.RepsTieBreak) Option {
	return func(s *Service) {
		if tb != "" {
			s.tieBreak = tb
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWatchDir enables reloading when files under dir change.
func WithWatchDir(dir string) Option {
	return func(s *Service) {
		s.watchDir = dir
	}
}

// WithReloadDebounce sets how long file events are coalesced before a reload.
func WithReloadDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLoaderWorkers sets the number of concurrent record fetches.
func WithLoaderWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithUnreportedTeams toggles zero entries for teams without a result.
func WithUnreportedTeams(enabled bool) Option {
	return func(s *Service) {
		s.unreported = enabled
	}
}
