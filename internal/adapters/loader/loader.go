// Package loader materializes the full practice record collection from a
// record store using a bounded pool of fetch workers.
package loader

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"sync"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	"github.com/GTTribe/tribe-ratings/internal/domain/dedupe"
	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/GTTribe/tribe-ratings/pkg/metrics"
)

// Report describes one completed load.
type Report struct {
	// Records holds every fetched record in manifest order.
	Records []model.PracticeRecord
	// Listed is the number of manifest entries, duplicates included.
	Listed int
	// Duplicates counts manifest entries that were dropped as repeats.
	Duplicates int
	// Failed names the entries that could not be fetched or decoded.
	Failed []string
	// Malformed counts fetched records missing teams or results.
	Malformed int
	Duration  time.Duration
}

// Loader fetches the manifest and then every record it lists.
type Loader struct {
	store   records.Store
	workers int
	logger  logger.Logger
}

// New creates a Loader reading from store.
func New(store records.Store, opts ...Option) *Loader {
	l := &Loader{
		store:   store,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("loader")
	}
	return l
}

// Load returns the complete record collection in manifest order.
func (l *Loader) Load(ctx context.Context) ([]model.PracticeRecord, error) {
	rep, err := l.LoadReport(ctx)
	if err != nil {
		return nil, err
	}
	return rep.Records, nil
}

// LoadReport is Load plus bookkeeping about what was skipped.
//
// A manifest failure is fatal and wraps ErrManifestUnavailable. A record that
// cannot be fetched is logged and skipped. If ctx is canceled before every
// fetch resolves, everything fetched so far is discarded and ctx.Err() is
// returned.
func (l *Loader) LoadReport(ctx context.Context) (Report, error) {
	start := time.Now()
	if l == nil || l.store == nil {
		return Report{}, ErrNoStore
	}

	names, err := l.store.Manifest(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Report{}, ctxErr
		}
		return Report{}, fmt.Errorf("%w: %w", ErrManifestUnavailable, err)
	}

	rep := Report{Listed: len(names)}
	unique := l.dedupe(ctx, names, &rep)

	fetched := make([]*model.PracticeRecord, len(unique))
	failed := make([]bool, len(unique))
	jobs := make(chan int)

	workers := l.workers
	if workers > len(unique) {
		workers = len(unique)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rec, err := l.store.Record(ctx, unique[idx])
				if err != nil {
					failed[idx] = true
					if ctx.Err() == nil {
						metrics.RecordRecordSkipped(metrics.SkipFetch)
						l.logger.Warn(ctx, "skipping unreadable practice record",
							logger.String("file", unique[idx]),
							logger.Error(err),
						)
					}
					continue
				}
				fetched[idx] = &rec
			}
		}()
	}

dispatch:
	for idx := range unique {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		l.logger.Warn(ctx, "load canceled, discarding partial results", logger.Error(err))
		return Report{}, err
	}

	rep.Records = make([]model.PracticeRecord, 0, len(unique))
	for idx, rec := range fetched {
		if failed[idx] || rec == nil {
			rep.Failed = append(rep.Failed, unique[idx])
			continue
		}
		if rec.Malformed() {
			rep.Malformed++
			metrics.RecordRecordSkipped(metrics.SkipMalformed)
		}
		metrics.RecordRecordLoaded()
		rep.Records = append(rep.Records, *rec)
	}
	rep.Duration = time.Since(start)

	l.logger.Debug(ctx, "practice records loaded",
		logger.Int("listed", rep.Listed),
		logger.Int("loaded", len(rep.Records)),
		logger.Int("failed", len(rep.Failed)),
		logger.Int("duplicates", rep.Duplicates),
		logger.Duration("took", rep.Duration),
	)
	return rep, nil
}

// dedupe keeps the first occurrence of each manifest entry.
func (l *Loader) dedupe(ctx context.Context, names []string, rep *Report) []string {
	seen := dedupe.NewInMemoryDeduper(dedupe.WithKeyFunc(path.Clean))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if seen.SeenAndRecord(ctx, name) {
			rep.Duplicates++
			metrics.RecordRecordSkipped(metrics.SkipDuplicate)
			l.logger.Info(ctx, "duplicate manifest entry ignored", logger.String("file", name))
			continue
		}
		unique = append(unique, name)
	}
	l.logger.Debug(ctx, "manifest deduplicated",
		logger.Int("listed", len(names)),
		logger.Int64("unique", seen.Size()))
	return unique
}
