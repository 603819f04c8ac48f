package repository

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/pkg/metrics"
)

// MemoryStore keeps the current snapshot behind an atomic pointer so readers
// always see one whole snapshot and writers never block them.
type MemoryStore struct {
	current     atomic.Pointer[Snapshot]
	generations atomic.Int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace implements Store.
func (m *MemoryStore) Replace(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	m.current.Store(snap)
	m.generations.Add(1)
	metrics.UpdateSnapshotSize(len(snap.Rows), len(snap.Records))
	return nil
}

// Current implements Store.
func (m *MemoryStore) Current(_ context.Context) (*Snapshot, error) {
	snap := m.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// TopN implements Store.
func (m *MemoryStore) TopN(ctx context.Context, n int) ([]model.LeaderboardRow, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	snap, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 || n > len(snap.Rows) {
		n = len(snap.Rows)
	}
	out := make([]model.LeaderboardRow, n)
	copy(out, snap.Rows[:n])
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context) int {
	snap := m.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Rows)
}

// Generations implements Store.
func (m *MemoryStore) Generations() int64 {
	return m.generations.Load()
}
