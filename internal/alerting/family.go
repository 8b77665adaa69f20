package alerting

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"printwatch/internal/logger"
	"printwatch/internal/metrics"
	"printwatch/internal/models"
	"printwatch/internal/telemetry"
)

// Family names, also used as metric labels.
const (
	FamilyHeatbed  = "heatbed"
	FamilyPower    = "power"
	FamilyMotion   = "motion"
	FamilyFan      = "fan"
	FamilyExtruder = "extruder"
	FamilyLeveling = "leveling"
)

// Rule is the predicate set of one continuous family.
// Detect may keep per-family memory (previous tick values); Reset drops it.
type Rule interface {
	Name() string
	Category() models.Category
	Dwell(s *Settings) time.Duration
	Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error)
	Reset()
}

// Family runs one Rule on its own ticker with a private Evaluator.
// Everything except settings and source is owned by the loop goroutine.
type Family struct {
	rule     Rule
	source   telemetry.Source
	settings *atomic.Pointer[Settings]
	eval     *Evaluator
	rec      *recorder
	log      *logger.Logger
}

func newFamily(rule Rule, source telemetry.Source, settings *atomic.Pointer[Settings], rec *recorder, log *logger.Logger) *Family {
	return &Family{
		rule:     rule,
		source:   source,
		settings: settings,
		eval:     NewEvaluator(rule.Dwell(settings.Load())),
		rec:      rec,
		log:      log.Named("rule." + rule.Name()),
	}
}

func (f *Family) Name() string { return f.rule.Name() }

// Run ticks until ctx is cancelled.
func (f *Family) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	f.log.Debugw("rule_loop_started", "tick", tick)
	for {
		select {
		case <-ctx.Done():
			f.log.Debugw("rule_loop_stopped")
			return
		case now := <-t.C:
			f.Tick(ctx, now)
		}
	}
}

// Tick performs one evaluation. It never panics.
func (f *Family) Tick(ctx context.Context, now time.Time) {
	name := f.rule.Name()
	defer func() {
		if r := recover(); r != nil {
			metrics.RuleFaultsTotal.WithLabelValues(name).Inc()
			metrics.RuleTicksTotal.WithLabelValues(name, "fault").Inc()
			f.log.Errorw("rule_tick_panic", "family", name, "panic", r)
		}
	}()

	s := f.settings.Load()
	snap := f.source.Current()
	if snap == nil {
		f.eval.Reset()
		f.rule.Reset()
		metrics.RuleTicksTotal.WithLabelValues(name, "no_data").Inc()
		metrics.RuleCandidates.WithLabelValues(name).Set(0)
		return
	}

	outcome := "evaluated"
	detected, err := f.detect(snap, s)
	if err != nil {
		outcome = "fault"
		detected = nil
		metrics.RuleFaultsTotal.WithLabelValues(name).Inc()
		f.log.Errorw("rule_detect_failed", "family", name, "err", err)
	}

	f.eval.SetDwell(f.rule.Dwell(s))
	confirmed := f.eval.Step(now, detected)
	metrics.RuleTicksTotal.WithLabelValues(name, outcome).Inc()
	metrics.RuleCandidates.WithLabelValues(name).Set(float64(f.eval.Len()))

	for _, d := range confirmed {
		f.rec.emit(ctx, name, f.rule.Category(), d, nil, now)
	}
}

// detect turns a panic inside the predicates into an error.
func (f *Family) detect(snap *models.TelemetrySnapshot, s *Settings) (ds []Detection, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds, err = nil, fmt.Errorf("detect panicked: %v", r)
		}
	}()
	return f.rule.Detect(snap, s)
}
