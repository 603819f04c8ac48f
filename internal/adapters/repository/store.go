// Package repository holds the immutable snapshots produced by each pipeline
// run and serves reads from the current one.
package repository

import (
	"context"
	"sort"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/google/uuid"
)

// Snapshot is the complete output of one aggregation and ranking run.
// It is never mutated after construction.
type Snapshot struct {
	ID            uuid.UUID
	BuiltAt       time.Time
	ReferenceDate time.Time

	// Records are sorted by date ascending.
	Records    []model.PracticeRecord
	Aggregates map[string]*model.PlayerAggregate
	Rows       []model.LeaderboardRow

	// LoadErr is set when the snapshot stands in for a failed load.
	LoadErr error

	index  map[string]int
	byDate map[string][]int
}

// NewSnapshot indexes rows by player and records by date.
func NewSnapshot(records []model.PracticeRecord, aggs map[string]*model.PlayerAggregate, rows []model.LeaderboardRow, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{
		ID:         uuid.New(),
		BuiltAt:    time.Now(),
		Records:    records,
		Aggregates: aggs,
		Rows:       rows,
		index:      make(map[string]int, len(rows)),
		byDate:     make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Aggregates == nil {
		s.Aggregates = map[string]*model.PlayerAggregate{}
	}
	for i, row := range rows {
		s.index[row.Player] = i
	}
	for i, rec := range records {
		s.byDate[rec.Date] = append(s.byDate[rec.Date], i)
	}
	return s
}

// Empty returns a snapshot with no data, optionally carrying the load error.
func Empty(err error) *Snapshot {
	return NewSnapshot(nil, nil, nil, WithLoadError(err))
}

// Row looks up a player's leaderboard row.
func (s *Snapshot) Row(player string) (model.LeaderboardRow, bool) {
	i, ok := s.index[player]
	if !ok {
		return model.LeaderboardRow{}, false
	}
	return s.Rows[i], true
}

// PracticesOn returns the records dated date in load order.
func (s *Snapshot) PracticesOn(date string) []model.PracticeRecord {
	idx := s.byDate[date]
	out := make([]model.PracticeRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.Records[i])
	}
	return out
}

// Dates lists distinct practice dates, newest first.
func (s *Snapshot) Dates() []string {
	dates := make([]string, 0, len(s.byDate))
	for d := range s.byDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Store provides read/write access to the current snapshot.
type Store interface {
	// Replace installs snap as the current snapshot.
	Replace(ctx context.Context, snap *Snapshot) error

	// Current returns the installed snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)

	// TopN returns the first n rows; n == 0 means all rows.
	TopN(ctx context.Context, n int) ([]model.LeaderboardRow, error)

	// Count returns the number of ranked players.
	Count(ctx context.Context) int

	// Generations reports how many snapshots have been installed.
	Generations() int64
}
