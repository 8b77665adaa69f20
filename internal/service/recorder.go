package service

import (
	"context"

	"printwatch/internal/alerting"
	"printwatch/internal/logger"
	"printwatch/internal/metrics"
	"printwatch/internal/models"
	"printwatch/internal/repository"
)

// Notifier pushes a recorded alert to an outside system.
type Notifier interface {
	Notify(ctx context.Context, a models.Alert) error
}

// AlertRecorder is the engine's alert and audit sink. Alerts are persisted
// first and then fanned out to notifiers; notifier errors never reach the engine.
type AlertRecorder struct {
	alertRepo repository.AlertRepo
	auditRepo repository.AuditRepo
	notifiers []Notifier
	log       *logger.Logger
}

var (
	_ alerting.AlertSink = (*AlertRecorder)(nil)
	_ alerting.AuditSink = (*AlertRecorder)(nil)
)

func NewAlertRecorder(repos *repository.Repository, log *logger.Logger, notifiers ...Notifier) *AlertRecorder {
	return &AlertRecorder{
		alertRepo: repos.AlertRepo,
		auditRepo: repos.AuditRepo,
		notifiers: notifiers,
		log:       log,
	}
}

func (r *AlertRecorder) RecordAlert(ctx context.Context, a models.Alert) error {
	id, err := r.alertRepo.Create(ctx, a)
	if err != nil {
		return err
	}
	a.ID = id
	for _, n := range r.notifiers {
		if err := n.Notify(ctx, a); err != nil {
			metrics.SinkFailuresTotal.WithLabelValues("notifier").Inc()
			r.log.Warnw("alert_notify_failed", "alert_id", id, "code", a.Code, "err", err)
		}
	}
	return nil
}

func (r *AlertRecorder) RecordAudit(ctx context.Context, rec models.AuditRecord) error {
	return r.auditRepo.Append(ctx, rec)
}
