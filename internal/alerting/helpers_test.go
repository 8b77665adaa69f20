package alerting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"printwatch/internal/logger"
	"printwatch/internal/models"
	"printwatch/internal/telemetry"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

// memSink records everything written to it and can be told to fail.
type memSink struct {
	mu            sync.Mutex
	alerts        []models.Alert
	audits        []models.AuditRecord
	alertAttempts int
	alertErr      error
	auditErr      error
}

func (m *memSink) RecordAlert(_ context.Context, a models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertAttempts++
	if m.alertErr != nil {
		return m.alertErr
	}
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *memSink) RecordAudit(_ context.Context, r models.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auditErr != nil {
		return m.auditErr
	}
	m.audits = append(m.audits, r)
	return nil
}

func (m *memSink) codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.alerts))
	for _, a := range m.alerts {
		out = append(out, a.Code)
	}
	return out
}

func (m *memSink) countTitle(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.alerts {
		if strings.Contains(a.Title, substr) {
			n++
		}
	}
	return n
}

func newTestFamily(rule Rule, src telemetry.Source, sink *memSink) *Family {
	var p atomic.Pointer[Settings]
	s := DefaultSettings()
	p.Store(&s)
	rec := &recorder{alerts: sink, audit: sink, log: logger.Nop()}
	return newFamily(rule, src, &p, rec, logger.Nop())
}

// scriptedRule returns a fixed detection set per call, or fails/panics.
type scriptedRule struct {
	detect func(call int) ([]Detection, error)
	calls  int
	resets int
	dwell  time.Duration
}

func (r *scriptedRule) Name() string                  { return "scripted" }
func (r *scriptedRule) Category() models.Category     { return models.CategoryAxis }
func (r *scriptedRule) Dwell(*Settings) time.Duration { return r.dwell }
func (r *scriptedRule) Reset()                        { r.resets++ }
func (r *scriptedRule) Detect(*models.TelemetrySnapshot, *Settings) ([]Detection, error) {
	call := r.calls
	r.calls++
	return r.detect(call)
}

var errBoom = errors.New("boom")

func sig(code string) Detection {
	return detection(code, "", code+" message", models.SeverityWarning)
}
