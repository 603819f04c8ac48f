package loader

import (
	"github.com/GTTribe/tribe-ratings/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithWorkers sets how many records are fetched concurrently.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
