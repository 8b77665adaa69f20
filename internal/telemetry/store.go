// Package telemetry holds the latest printer snapshot shared between the
// acquisition side (one writer) and the rule families (many readers).
package telemetry

import (
	"sync/atomic"
	"time"

	"printwatch/internal/models"
)

// Source hands out the latest complete snapshot, or nil when there is none.
// Implementations must be safe for concurrent callers.
type Source interface {
	Current() *models.TelemetrySnapshot
}

// Store is a single-writer / multi-reader cell for the latest snapshot.
// Readers always get either a fully built snapshot or nil.
type Store struct {
	latest atomic.Pointer[models.TelemetrySnapshot]
	maxAge time.Duration
	now    func() time.Time
}

// NewStore returns an empty store. A positive maxAge makes snapshots older
// than maxAge (by CapturedAt) read as absent.
func NewStore(maxAge time.Duration) *Store {
	return &Store{maxAge: maxAge, now: time.Now}
}

// Publish replaces the latest snapshot. The caller gives up ownership of s
// and must not modify it afterwards.
func (s *Store) Publish(snap *models.TelemetrySnapshot) {
	s.latest.Store(snap)
}

// Clear marks telemetry as unavailable.
func (s *Store) Clear() {
	s.latest.Store(nil)
}

// Current implements Source.
func (s *Store) Current() *models.TelemetrySnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return nil
	}
	if s.maxAge > 0 && !snap.CapturedAt.IsZero() && s.now().Sub(snap.CapturedAt) > s.maxAge {
		return nil
	}
	return snap
}

// Last returns the latest published snapshot, ignoring staleness.
func (s *Store) Last() *models.TelemetrySnapshot {
	return s.latest.Load()
}
