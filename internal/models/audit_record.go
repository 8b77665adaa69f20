package models

import "time"

// AuditRecord is a single line of the append-only action log.
type AuditRecord struct {
	ID       string    `json:"id"`
	ActorID  *int      `json:"actor_id"` // nil for system-originated actions
	Action   string    `json:"action"`   // e.g. ALERT_CB2565, LEVELING_CHECK
	Details  string    `json:"details"`
	LoggedAt time.Time `json:"logged_at"`
}
