package alerting

import (
	"context"
	"time"

	"printwatch/internal/logger"
	"printwatch/internal/metrics"
	"printwatch/internal/models"
)

const sinkTimeout = 5 * time.Second

// recorder writes a confirmed detection to both sinks. Failures are logged
// and counted but never returned: the caller has already marked the
// signature as reported.
type recorder struct {
	alerts AlertSink
	audit  AuditSink
	log    *logger.Logger
}

func (r *recorder) emit(ctx context.Context, family string, cat models.Category, d Detection, actorID *int, now time.Time) {
	code := d.Signature.Code
	ctx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	metrics.AlertsEmittedTotal.WithLabelValues(family, code).Inc()

	if err := r.audit.RecordAudit(ctx, auditFor(d, actorID, now)); err != nil {
		metrics.SinkFailuresTotal.WithLabelValues("audit").Inc()
		r.log.Errorw("audit_write_failed", "family", family, "code", code, "err", err)
	}
	if err := r.alerts.RecordAlert(ctx, alertFor(d, cat, now)); err != nil {
		metrics.SinkFailuresTotal.WithLabelValues("alert").Inc()
		r.log.Errorw("alert_write_failed", "family", family, "code", code, "err", err)
		return
	}
	r.log.Infow("alert_recorded",
		"family", family,
		"code", code,
		"context", d.Signature.Context,
		"severity", d.Severity,
	)
}

func alertFor(d Detection, cat models.Category, now time.Time) models.Alert {
	return models.Alert{
		Code:      d.Signature.Code,
		Title:     d.Signature.Code + " - " + d.Message,
		Details:   d.Message,
		Category:  cat,
		Severity:  d.Severity,
		Priority:  models.PriorityFor(d.Severity),
		CreatedAt: now.UTC(),
	}
}

func auditFor(d Detection, actorID *int, now time.Time) models.AuditRecord {
	return models.AuditRecord{
		ActorID:  actorID,
		Action:   "ALERT_" + d.Signature.Code,
		Details:  d.Message,
		LoggedAt: now.UTC(),
	}
}
