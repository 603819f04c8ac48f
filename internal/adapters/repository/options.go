package repository

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotOption configures NewSnapshot.
type SnapshotOption func(*Snapshot)

// WithID overrides the generated snapshot id.
func WithID(id uuid.UUID) SnapshotOption {
	return func(s *Snapshot) {
		if id != uuid.Nil {
			s.ID = id
		}
	}
}

// WithBuiltAt sets the build timestamp.
func WithBuiltAt(t time.Time) SnapshotOption {
	return func(s *Snapshot) {
		if !t.IsZero() {
			s.BuiltAt = t
		}
	}
}

// WithReferenceDate records the date ratings were decayed against.
func WithReferenceDate(t time.Time) SnapshotOption {
	return func(s *Snapshot) {
		s.ReferenceDate = t
	}
}

// WithLoadError marks the snapshot as the result of a failed load.
func WithLoadError(err error) SnapshotOption {
	return func(s *Snapshot) {
		s.LoadErr = err
	}
}
