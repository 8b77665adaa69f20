package alerting

import (
	"context"

	"printwatch/internal/models"
)

// AlertSink durably stores confirmed alerts.
type AlertSink interface {
	RecordAlert(ctx context.Context, alert models.Alert) error
}

// AuditSink appends to the audit trail. A nil ActorID marks a system action.
type AuditSink interface {
	RecordAudit(ctx context.Context, rec models.AuditRecord) error
}
