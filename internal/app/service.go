// Package service runs the rating pipeline and serves its results to the
// HTTP and MCP adapters.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/loader"
	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	"github.com/GTTribe/tribe-ratings/internal/adapters/repository"
	"github.com/GTTribe/tribe-ratings/internal/domain/aggregate"
	"github.com/GTTribe/tribe-ratings/internal/domain/drilldown"
	"github.com/GTTribe/tribe-ratings/internal/domain/leaderboard"
	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
	"github.com/GTTribe/tribe-ratings/internal/domain/types"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/GTTribe/tribe-ratings/pkg/metrics"
)

const defaultReloadDebounce = 250 * time.Millisecond

// Service owns the current snapshot and rebuilds it from scratch on every reload.
type Service struct {
	mu       sync.Mutex // guards lifecycle
	reloadMu sync.Mutex // serializes reloads

	store  records.Store
	loader *loader.Loader
	repo   repository.Store

	// Configuration
	params     rating.Params
	tieBreak   leaderboard.RepsTieBreak
	unreported bool
	now        func() time.Time
	watchDir   string
	debounce   time.Duration
	workers    int

	// State
	started  bool
	cancel   context.CancelFunc
	watchers sync.WaitGroup
	watching atomic.Bool

	lastReport atomic.Pointer[loader.Report]

	// Logging
	logger logger.Logger
}

// New constructs a Service. Start must be called before reads succeed.
func New(opts ...Option) *Service {
	s := &Service{
		repo:       repository.NewMemoryStore(),
		params:     rating.DefaultParams(),
		tieBreak:   leaderboard.DefaultRepsTieBreak,
		unreported: true,
		now:        time.Now,
		debounce:   defaultReloadDebounce,
		workers:    runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.loader = loader.New(s.store,
		loader.WithWorkers(s.workers),
		loader.WithLogger(s.logger.Named("loader")),
	)
	return s
}

// Start builds the first snapshot and, when a watch dir is configured, starts
// the file watcher. A missing manifest or data dir does not fail Start: an
// empty snapshot is served until a later reload succeeds. A data dir that
// does not exist yet is picked up by the watcher once it is created.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoRecordStore
	}

	s.logger.Info(ctx, "starting ratings service...")

	if _, err := s.Reload(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.logger.Error(ctx, "initial load failed, serving empty leaderboard", logger.Error(err))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.watchDir != "" {
		w, err := newWatcher(s.watchDir, s.debounce, s.logger.Named("watcher"))
		if err != nil {
			s.logger.Warn(ctx, "file watching disabled", logger.String("dir", s.watchDir), logger.Error(err))
		} else {
			s.startWatcher(runCtx, w)
		}
	}

	s.started = true
	s.logger.Info(ctx, "ratings service started",
		logger.Int("workers", s.workers),
		logger.String("tieBreak", string(s.tieBreak)),
		logger.Bool("watching", s.watching.Load()),
	)
	return nil
}

func (s *Service) startWatcher(ctx context.Context, w *watcher) {
	s.watching.Store(true)
	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		defer s.watching.Store(false)
		w.run(ctx, func(ctx context.Context) {
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error(ctx, "reload after file change failed", logger.Error(err))
			}
		})
	}()
}

// Stop shuts down the watcher. Snapshots stay readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping ratings service...")
	if s.cancel != nil {
		s.cancel()
	}
	s.watchers.Wait()

	s.started = false
	s.logger.Info(context.Background(), "ratings service stopped")
}

// Reload reruns the whole pipeline: load, date-sort, aggregate, rate, rank,
// then swap in the new snapshot. On a manifest failure an empty snapshot
// carrying the error is installed. A canceled load leaves the current
// snapshot untouched.
func (s *Service) Reload(ctx context.Context) (*repository.Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	rep, err := s.loader.LoadReport(ctx)
	if err != nil {
		if ctx.Err() != nil {
			metrics.RecordReload(metrics.OutcomeCanceled, time.Since(start))
			return nil, err
		}
		metrics.RecordReload(metrics.OutcomeFailed, time.Since(start))
		snap := repository.Empty(err)
		_ = s.repo.Replace(ctx, snap)
		s.lastReport.Store(&loader.Report{})
		return snap, err
	}

	snap := s.build(rep.Records)
	if err := s.repo.Replace(ctx, snap); err != nil {
		return nil, err
	}
	s.lastReport.Store(&rep)

	took := time.Since(start)
	metrics.RecordReload(metrics.OutcomeOK, took)
	s.logger.Info(ctx, "snapshot rebuilt",
		logger.String("snapshot", snap.ID.String()),
		logger.Int("practices", len(snap.Records)),
		logger.Int("players", len(snap.Rows)),
		logger.Int("skipped", len(rep.Failed)),
		logger.Duration("took", took),
	)
	return snap, nil
}

// build is the pure part of a reload.
func (s *Service) build(recs []model.PracticeRecord) *repository.Snapshot {
	sorted := make([]model.PracticeRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	now := s.now()
	params := s.params
	if params.ReferenceDate.IsZero() {
		params.ReferenceDate = now
	}

	aggs := aggregate.Aggregate(sorted, aggregate.WithUnreportedTeams(s.unreported))
	rows := leaderboard.Build(aggs, params, leaderboard.WithRepsTieBreak(s.tieBreak))

	return repository.NewSnapshot(sorted, aggs, rows,
		repository.WithBuiltAt(now),
		repository.WithReferenceDate(params.ReferenceDate),
	)
}

// Leaderboard returns the first limit ranked entries; limit 0 means all.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	rows, err := s.repo.TopN(ctx, limit)
	if err != nil {
		return nil, err
	}
	total := s.repo.Count(ctx)

	entries := make([]types.Entry, len(rows))
	for i, row := range rows {
		entries[i] = toEntry(row, total)
	}
	return entries, nil
}

// Player returns a player's entry and per-practice history, newest first.
func (s *Service) Player(ctx context.Context, name string) (types.PlayerDetail, error) {
	snap, err := s.repo.Current(ctx)
	if err != nil {
		return types.PlayerDetail{}, err
	}
	row, ok := snap.Row(name)
	if !ok {
		return types.PlayerDetail{}, fmt.Errorf("%w: player %q", repository.ErrNotFound, name)
	}
	return types.PlayerDetail{
		Entry:     toEntry(row, len(snap.Rows)),
		Practices: drilldown.PlayerPractices(snap.Records, name),
	}, nil
}

// Practices summarizes every loaded practice, newest first.
func (s *Service) Practices(ctx context.Context) ([]types.PracticeSummary, error) {
	snap, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.PracticeSummary, 0, len(snap.Records))
	for _, date := range snap.Dates() {
		for _, rec := range snap.PracticesOn(date) {
			if rec.Malformed() {
				continue
			}
			reps, scores := drilldown.PracticeTotals(rec)
			out = append(out, types.PracticeSummary{
				Date:    rec.Date,
				Teams:   len(rec.Teams),
				Players: countPlayers(rec),
				Reps:    reps,
				Scores:  scores,
				Pct:     model.Rate(scores, reps),
			})
		}
	}
	return out, nil
}

// Practice returns the team breakdown of every practice held on date.
func (s *Service) Practice(ctx context.Context, date string) ([]types.PracticeDetail, error) {
	snap, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}

	var out []types.PracticeDetail
	for _, rec := range snap.PracticesOn(date) {
		if rec.Malformed() {
			continue
		}
		out = append(out, types.PracticeDetail{
			Date:  rec.Date,
			Teams: drilldown.PracticeTeams(rec),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: practice %q", repository.ErrNotFound, date)
	}
	return out, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	return s.repo.Current(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	stats := map[string]interface{}{
		"started":  started,
		"watching": s.watching.Load(),
		"workers":  s.workers,
		"tieBreak": string(s.tieBreak),
		"reloads":  s.repo.Generations(),
	}

	snap, err := s.repo.Current(context.Background())
	if err == nil {
		stats["snapshotId"] = snap.ID.String()
		stats["builtAt"] = snap.BuiltAt.UTC().Format(time.RFC3339)
		stats["referenceDate"] = snap.ReferenceDate.UTC().Format(time.DateOnly)
		stats["players"] = len(snap.Rows)
		stats["practices"] = len(snap.Records)
		if snap.LoadErr != nil {
			stats["lastError"] = snap.LoadErr.Error()
		}
	}
	if rep := s.lastReport.Load(); rep != nil {
		stats["lastLoad"] = map[string]interface{}{
			"listed":     rep.Listed,
			"loaded":     len(rep.Records),
			"failed":     rep.Failed,
			"duplicates": rep.Duplicates,
			"malformed":  rep.Malformed,
		}
	}
	return stats
}

// Healthy reports whether the current snapshot came from a successful load.
func (s *Service) Healthy(ctx context.Context) error {
	snap, err := s.repo.Current(ctx)
	if err != nil {
		return err
	}
	if snap.LoadErr != nil {
		return snap.LoadErr
	}
	return nil
}

func toEntry(row model.LeaderboardRow, total int) types.Entry {
	return types.Entry{
		Rank:       row.Rank,
		Player:     row.Player,
		Scored:     row.TotalScored,
		Reps:       row.TotalReps,
		Pct:        row.Pct,
		PctDisplay: leaderboard.FormatPct(row.Pct),
		Rating:     row.Rating,
		Medal:      string(leaderboard.Podium(row.Rank, total)),
	}
}

func countPlayers(rec model.PracticeRecord) int {
	seen := make(map[string]struct{})
	for _, t := range rec.Teams {
		for _, p := range t.Roster {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}
