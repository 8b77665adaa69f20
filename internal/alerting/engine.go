// Package alerting is the rule engine: continuous rule families that read
// the shared telemetry snapshot, debounce what they detect and record
// confirmed alerts.
package alerting

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"printwatch/internal/logger"
	"printwatch/internal/models"
	"printwatch/internal/telemetry"
)

var ErrNoTelemetry = errors.New("no telemetry available")

// Engine owns the rule families and their shared settings.
type Engine struct {
	source   telemetry.Source
	settings atomic.Pointer[Settings]
	families []*Family
	rec      *recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewEngine builds every continuous family plus the leveling checker.
// An invalid settings value falls back to DefaultSettings.
func NewEngine(source telemetry.Source, alerts AlertSink, audit AuditSink, settings Settings, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		source: source,
		rec:    &recorder{alerts: alerts, audit: audit, log: log.Named("alerting")},
		log:    log.Named("alerting"),
		now:    time.Now,
	}
	if err := settings.Validate(); err != nil {
		e.log.Warnw("rule_settings_rejected", "err", err)
		settings = DefaultSettings()
	}
	e.settings.Store(&settings)

	rules := []Rule{
		&heatbedRule{},
		powerRule{},
		&motionRule{},
		fanRule{},
		extruderRule{},
	}
	for _, r := range rules {
		e.families = append(e.families, newFamily(r, source, &e.settings, e.rec, log))
	}
	return e
}

// Families returns the continuous families in a fixed order.
func (e *Engine) Families() []*Family {
	return e.families
}

// Run starts one goroutine per family and blocks until ctx is cancelled
// and every loop has returned.
func (e *Engine) Run(ctx context.Context) {
	tick := e.Settings().Tick
	var wg sync.WaitGroup
	for _, f := range e.families {
		wg.Add(1)
		go func(f *Family) {
			defer wg.Done()
			f.Run(ctx, tick)
		}(f)
	}
	e.log.Infow("rule_engine_started", "families", len(e.families), "tick", tick)
	wg.Wait()
	e.log.Infow("rule_engine_stopped")
}

// Settings returns a copy of the active settings.
func (e *Engine) Settings() Settings {
	return *e.settings.Load()
}

// ApplySettings swaps the active settings. The tick period is read only at
// start; thresholds and dwell take effect on the next tick of each family.
func (e *Engine) ApplySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings.Store(&s)
	e.log.Infow("rule_settings_applied")
	return nil
}

// CheckLeveling runs the bed-leveling check against the current snapshot.
// A finding is recorded right away with actorID as the audit actor.
func (e *Engine) CheckLeveling(ctx context.Context, actorID *int) (LevelingReport, error) {
	snap := e.source.Current()
	if snap == nil {
		return LevelingReport{}, ErrNoTelemetry
	}
	report := AssessLeveling(snap, e.Settings().Leveling)
	if !report.OK {
		e.rec.emit(ctx, FamilyLeveling, models.CategoryLeveling, report.detection(), actorID, e.now())
	}
	return report, nil
}
