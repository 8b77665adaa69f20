package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"printwatch/internal/logger"
	"printwatch/internal/models"
)

// ----------- Simulation constants -----------
const (
	AmbientC          = 25.0
	BedTargetC        = 60.0
	NozzleTargetC     = 210.0
	ColdNozzleC       = 120.0 // where a failing heater cartridge plateaus
	CoolCPerSec       = 0.5
	HeatRampCPerSec   = 4.0
	BedHoldPower      = 0.35
	NozzleHoldPower   = 0.45
	FeedrateMMs       = 50.0
	ExtrudeMMs        = 2.0
	ProgressPerSec    = 0.05 // % per second
	PartFanSpeed      = 0.8
	FanRPMAtFull      = 5000.0
	BedMinX           = 10.0
	BedMaxX           = 200.0
	JobStartProgress  = 12.5 // the simulated job is already under way
	JobStartDuration  = 600.0
)

// Injectable faults. Each one drives a single rule family.
const (
	FaultNone         = ""
	FaultBedNoCurrent = "bed_no_current"
	FaultFanStall     = "fan_stall"
	FaultNozzleJam    = "nozzle_jam"
	FaultPowerLoss    = "power_loss"
	FaultExtruderCold = "extruder_cold"
	FaultBedUneven    = "bed_uneven"
)

var knownFaults = map[string]struct{}{
	FaultNone: {}, FaultBedNoCurrent: {}, FaultFanStall: {}, FaultNozzleJam: {},
	FaultPowerLoss: {}, FaultExtruderCold: {}, FaultBedUneven: {},
}

const (
	flatMesh   = `[[0.05,0.12,0.08],[0.10,0.20,0.15],[0.02,0.11,0.09]]`
	unevenMesh = `[[0.20,0.45,0.90],[0.30,0.50,0.60],[0.25,0.40,0.55]]`
)

var ErrUnknownFault = errors.New("unknown simulator fault")

// SimulatorConfig is read from the simulator.* config keys.
type SimulatorConfig struct {
	// Enabled makes the simulator the only telemetry source.
	Enabled   bool
	PrinterID string
	Filename  string
	Fault     string
}

// SnapshotPublisher is the part of Telemetry the simulator feeds.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap models.TelemetrySnapshot, origin string) error
}

// printerState is the simulated machine. Owned by the Run goroutine.
type printerState struct {
	bedTemp    float64
	nozzleTemp float64
	pos        models.Position
	dir        float64
	progress   float64
	duration   float64
	updatedAt  time.Time
}

// SimulatorService plays a printer that is already at temperature and
// printing, optionally with one fault injected.
type SimulatorService struct {
	publisher SnapshotPublisher
	cfg       SimulatorConfig
	fault     atomic.Value // string
	log       *logger.Logger
	st        printerState
}

func NewSimulatorService(publisher SnapshotPublisher, cfg SimulatorConfig, log *logger.Logger) *SimulatorService {
	if cfg.PrinterID == "" {
		cfg.PrinterID = defaultPrinterID
	}
	if cfg.Filename == "" {
		cfg.Filename = "calibration_cube.gcode"
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &SimulatorService{publisher: publisher, cfg: cfg, log: log}
	if err := s.SetFault(cfg.Fault); err != nil {
		log.Warnw("simulator_fault_ignored", "fault", cfg.Fault, "err", err)
		s.fault.Store(FaultNone)
	}
	return s
}

// SetFault switches the injected fault. An empty name clears it.
func (s *SimulatorService) SetFault(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := knownFaults[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFault, name)
	}
	s.fault.Store(name)
	return nil
}

func (s *SimulatorService) Fault() string {
	f, _ := s.fault.Load().(string)
	return f
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	s.log.Infow("simulator_started", "printer_id", s.cfg.PrinterID, "fault", s.Fault())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			elapsed := tick.Seconds()
			if !s.st.updatedAt.IsZero() {
				elapsed = now.Sub(s.st.updatedAt).Seconds()
			}
			snap := s.step(now, elapsed)
			if err := s.publisher.Publish(ctx, snap, OriginSimulator); err != nil {
				s.log.Warnw("simulator_publish_failed", "err", err)
			}
		}
	}
}

// step advances the machine by elapsed seconds and returns what its
// controller would report.
func (s *SimulatorService) step(now time.Time, elapsed float64) models.TelemetrySnapshot {
	st := &s.st
	if st.updatedAt.IsZero() {
		st.bedTemp = BedTargetC
		st.nozzleTemp = NozzleTargetC
		st.pos = models.Position{X: BedMinX, Y: 100, Z: 0.2}
		st.dir = 1
		st.progress = JobStartProgress
		st.duration = JobStartDuration
	}
	st.updatedAt = now
	fault := s.Fault()

	snap := models.TelemetrySnapshot{
		PrinterID:    s.cfg.PrinterID,
		CapturedAt:   now.UTC(),
		Filename:     models.String(s.cfg.Filename),
		ZTiltApplied: models.Bool(true),
		BedMesh:      models.String(flatMesh),
	}
	if fault == FaultBedUneven {
		snap.BedMesh = models.String(unevenMesh)
	}

	if fault == FaultPowerLoss {
		s.powerLoss(&snap, elapsed)
		return snap
	}

	bedPower := BedHoldPower
	if fault == FaultBedNoCurrent {
		bedPower = 0
		st.bedTemp = approach(st.bedTemp, AmbientC, CoolCPerSec*elapsed)
	} else {
		st.bedTemp = approach(st.bedTemp, BedTargetC, HeatRampCPerSec*elapsed)
	}

	nozzlePower := NozzleHoldPower
	if fault == FaultExtruderCold {
		nozzlePower = 1
		st.nozzleTemp = approach(st.nozzleTemp, ColdNozzleC, HeatRampCPerSec*elapsed)
	} else {
		st.nozzleTemp = approach(st.nozzleTemp, NozzleTargetC, HeatRampCPerSec*elapsed)
	}

	if fault != FaultNozzleJam {
		s.move(elapsed)
	}
	st.progress += ProgressPerSec * elapsed
	if st.progress >= 100 {
		st.progress = 0
		st.duration = 0
	}
	st.duration += elapsed

	partRPM := PartFanSpeed * FanRPMAtFull
	if fault == FaultFanStall {
		partRPM = 0
	}

	pos := st.pos
	snap.BedTemp = models.Float(st.bedTemp)
	snap.BedTarget = models.Float(BedTargetC)
	snap.BedPower = models.Float(bedPower)
	snap.NozzleTemp = models.Float(st.nozzleTemp)
	snap.NozzleTarget = models.Float(NozzleTargetC)
	snap.NozzlePower = models.Float(nozzlePower)
	snap.Position = &pos
	snap.Velocity = models.Float(FeedrateMMs)
	snap.ExtruderVelocity = models.Float(ExtrudeMMs)
	snap.PrintState = models.String("printing")
	snap.Progress = models.Float(st.progress)
	snap.PrintDuration = models.Float(st.duration)
	snap.Fans = []models.FanReading{
		{Name: "part_fan", Speed: models.Float(PartFanSpeed), RPM: models.Float(partRPM)},
		{Name: "hotend_fan", Speed: models.Float(1), RPM: models.Float(FanRPMAtFull)},
	}
	return snap
}

// move sweeps the toolhead along X and feeds filament.
func (s *SimulatorService) move(elapsed float64) {
	st := &s.st
	st.pos.X += st.dir * FeedrateMMs * elapsed
	if st.pos.X >= BedMaxX {
		st.pos.X, st.dir = BedMaxX, -1
	}
	if st.pos.X <= BedMinX {
		st.pos.X, st.dir = BedMinX, 1
	}
	st.pos.E += ExtrudeMMs * elapsed
}

// powerLoss reports a controller that rebooted mid-job: heaters off, job
// file and progress still set, not printing.
func (s *SimulatorService) powerLoss(snap *models.TelemetrySnapshot, elapsed float64) {
	st := &s.st
	st.bedTemp = approach(st.bedTemp, AmbientC, CoolCPerSec*elapsed)
	st.nozzleTemp = approach(st.nozzleTemp, AmbientC, CoolCPerSec*elapsed)
	pos := st.pos

	snap.BedTemp = models.Float(st.bedTemp)
	snap.BedTarget = models.Float(0)
	snap.BedPower = models.Float(0)
	snap.NozzleTemp = models.Float(st.nozzleTemp)
	snap.NozzleTarget = models.Float(0)
	snap.NozzlePower = models.Float(0)
	snap.Position = &pos
	snap.Velocity = models.Float(0)
	snap.ExtruderVelocity = models.Float(0)
	snap.PrintState = models.String("standby")
	snap.Progress = models.Float(st.progress)
	snap.PrintDuration = models.Float(st.duration)
	snap.Fans = []models.FanReading{
		{Name: "part_fan", Speed: models.Float(0), RPM: models.Float(0)},
		{Name: "hotend_fan", Speed: models.Float(0), RPM: models.Float(0)},
	}
}

// approach moves cur toward target by at most step.
func approach(cur, target, step float64) float64 {
	if cur < target {
		return minFloat(cur+step, target)
	}
	return maxFloat(cur-step, target)
}

func maxFloat(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
