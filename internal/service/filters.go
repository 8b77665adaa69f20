package service

import "time"

// AlertFilter narrows GET /alerts.
type AlertFilter struct {
	Unresolved bool
	Category   string // HEATBED, POWER, AXIS, FAN, EXTRUDER_AND_TOOLHEAD, LEVELING
	Code       string
	AfterID    int64
	Limit      int
}

// AuditFilter supports history filtering by time range and action.
type AuditFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Action string    // e.g. ALERT_FN0001
}
