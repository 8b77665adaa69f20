package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"printwatch/internal/metrics"
	"printwatch/internal/models"
	"printwatch/internal/repository"
	"printwatch/internal/telemetry"
)

const (
	defaultPrinterID = "printer-1"
	maxClockSkew     = time.Minute
)

// Snapshot origins, used as metric labels.
const (
	OriginAPI       = "api"
	OriginSimulator = "simulator"
)

var (
	ErrInvalidSnapshot = errors.New("invalid telemetry snapshot")
	ErrSimulatorActive = errors.New("telemetry is fed by the simulator")
)

type TelemetryService struct {
	store        *telemetry.Store
	snapshotRepo repository.SnapshotRepo
	simulated    bool
	now          func() time.Time
}

// NewTelemetryService returns the single writer of store. With simulated set
// only the simulator may publish.
func NewTelemetryService(store *telemetry.Store, snapshotRepo repository.SnapshotRepo, simulated bool) *TelemetryService {
	return &TelemetryService{store: store, snapshotRepo: snapshotRepo, simulated: simulated, now: time.Now}
}

// Publish validates snap, makes it the current snapshot and persists it.
// The store is updated even when persisting fails.
func (s *TelemetryService) Publish(ctx context.Context, snap models.TelemetrySnapshot, origin string) error {
	if s.simulated && origin != OriginSimulator {
		return ErrSimulatorActive
	}
	now := s.now().UTC()
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = now
	} else {
		snap.CapturedAt = snap.CapturedAt.UTC()
	}
	if snap.PrinterID == "" {
		snap.PrinterID = defaultPrinterID
	}
	if err := validateSnapshot(snap, now); err != nil {
		return err
	}

	s.store.Publish(&snap)
	metrics.SnapshotsPublishedTotal.WithLabelValues(origin).Inc()

	if err := s.snapshotRepo.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Latest returns the in-memory snapshot, falling back to the persisted one
// after a restart. It returns (nil, nil) when nothing was ever published.
func (s *TelemetryService) Latest(ctx context.Context) (*models.TelemetrySnapshot, error) {
	if snap := s.store.Last(); snap != nil {
		return snap, nil
	}
	return s.snapshotRepo.Load(ctx)
}

func validateSnapshot(snap models.TelemetrySnapshot, now time.Time) error {
	if snap.CapturedAt.Sub(now) > maxClockSkew {
		return fmt.Errorf("%w: captured_at %s is in the future", ErrInvalidSnapshot, snap.CapturedAt.Format(time.RFC3339))
	}
	if p := snap.Progress; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("%w: progress %.1f outside 0..100", ErrInvalidSnapshot, *p)
	}
	for name, v := range map[string]*float64{"bed_power": snap.BedPower, "nozzle_power": snap.NozzlePower} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%w: %s %.2f outside 0..1", ErrInvalidSnapshot, name, *v)
		}
	}
	for _, f := range snap.Fans {
		if f.Name == "" {
			return fmt.Errorf("%w: fan without name", ErrInvalidSnapshot)
		}
		if f.Speed != nil && (*f.Speed < 0 || *f.Speed > 1) {
			return fmt.Errorf("%w: fan %s speed %.2f outside 0..1", ErrInvalidSnapshot, f.Name, *f.Speed)
		}
		if f.RPM != nil && *f.RPM < 0 {
			return fmt.Errorf("%w: fan %s rpm is negative", ErrInvalidSnapshot, f.Name)
		}
	}
	return nil
}
