package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"printwatch/internal/alerting"
	"printwatch/internal/logger"
	"printwatch/internal/models"
	"printwatch/internal/telemetry"
)

// storePublisher publishes straight into a store, like TelemetryService without persistence.
type storePublisher struct {
	store *telemetry.Store
	mu    sync.Mutex
	count int
}

func (p *storePublisher) Publish(_ context.Context, snap models.TelemetrySnapshot, _ string) error {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
	p.store.Publish(&snap)
	return nil
}

// codeSink collects alert codes written by the engine.
type codeSink struct {
	mu    sync.Mutex
	codes map[string]int
}

func (s *codeSink) RecordAlert(_ context.Context, a models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = map[string]int{}
	}
	s.codes[a.Code]++
	return nil
}

func (s *codeSink) RecordAudit(context.Context, models.AuditRecord) error { return nil }

// simulate drives the simulator and every continuous rule family for the
// given number of one-second ticks.
func simulate(t *testing.T, fault string, seconds int) (*codeSink, *alerting.Engine) {
	t.Helper()
	store := telemetry.NewStore(0)
	sink := &codeSink{}
	engine := alerting.NewEngine(store, sink, sink, alerting.DefaultSettings(), logger.Nop())
	sim := NewSimulatorService(&storePublisher{store: store}, SimulatorConfig{Fault: fault}, logger.Nop())

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for i := 0; i < seconds; i++ {
		now := start.Add(time.Duration(i) * time.Second)
		snap := sim.step(now, 1)
		store.Publish(&snap)
		for _, f := range engine.Families() {
			f.Tick(ctx, now)
		}
	}
	return sink, engine
}

func TestSimulator_HealthyPrinterRaisesNothing(t *testing.T) {
	sink, engine := simulate(t, FaultNone, 120)
	if len(sink.codes) != 0 {
		t.Fatalf("expected no alerts, got %v", sink.codes)
	}
	report, err := engine.CheckLeveling(context.Background(), nil)
	if err != nil || !report.OK {
		t.Fatalf("expected flat bed, got (%+v, %v)", report, err)
	}
}

func TestSimulator_FaultsTriggerTheirFamily(t *testing.T) {
	tests := []struct {
		fault string
		codes []string
	}{
		{FaultBedNoCurrent, []string{"CB2565"}},
		{FaultFanStall, []string{"FN0001"}},
		{FaultNozzleJam, []string{"CM3000", "CM3001"}},
		{FaultPowerLoss, []string{"CM0115"}},
		{FaultExtruderCold, []string{"EX0001"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.fault, func(t *testing.T) {
			sink, _ := simulate(t, tc.fault, 90)
			for _, code := range tc.codes {
				if sink.codes[code] == 0 {
					t.Fatalf("expected %s, got %v", code, sink.codes)
				}
			}
		})
	}
}

func TestSimulator_BedUnevenFailsLevelingCheck(t *testing.T) {
	_, engine := simulate(t, FaultBedUneven, 3)
	report, err := engine.CheckLeveling(context.Background(), nil)
	if err != nil {
		t.Fatalf("CheckLeveling: %v", err)
	}
	if report.Code != "BM0001" {
		t.Fatalf("expected BM0001, got %+v", report)
	}
}

func TestSimulator_SetFault(t *testing.T) {
	sim := NewSimulatorService(&storePublisher{store: telemetry.NewStore(0)}, SimulatorConfig{Fault: "nonsense"}, logger.Nop())
	if sim.Fault() != FaultNone {
		t.Fatalf("unknown configured fault should be ignored, got %q", sim.Fault())
	}
	if err := sim.SetFault(" Fan_Stall "); err != nil || sim.Fault() != FaultFanStall {
		t.Fatalf("SetFault: %v, fault=%q", err, sim.Fault())
	}
	if err := sim.SetFault("meltdown"); !errors.Is(err, ErrUnknownFault) {
		t.Fatalf("expected ErrUnknownFault, got %v", err)
	}
	if sim.Fault() != FaultFanStall {
		t.Fatalf("failed SetFault must keep the previous fault")
	}
}

func TestApproach(t *testing.T) {
	if got := approach(20, 60, 4); got != 24 {
		t.Fatalf("heating step: got %v", got)
	}
	if got := approach(59, 60, 4); got != 60 {
		t.Fatalf("should clamp at target, got %v", got)
	}
	if got := approach(60, 25, 0.5); got != 59.5 {
		t.Fatalf("cooling step: got %v", got)
	}
}

func TestSimulator_RunPublishesUntilCancelled(t *testing.T) {
	pub := &storePublisher{store: telemetry.NewStore(0)}
	sim := NewSimulatorService(pub, SimulatorConfig{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		pub.mu.Lock()
		n := pub.count
		pub.mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("simulator published only %d snapshots", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
