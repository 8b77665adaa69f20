package models

import "time"

// Category groups alerts by printer subsystem.
type Category string

const (
	CategoryHeatbed  Category = "HEATBED"
	CategoryPower    Category = "POWER"
	CategoryAxis     Category = "AXIS"
	CategoryFan      Category = "FAN"
	CategoryExtruder Category = "EXTRUDER_AND_TOOLHEAD"
	CategoryLeveling Category = "LEVELING"
)

// Severity of an alert.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Priority is the triage order shown to operators, derived from Severity.
type Priority string

const (
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// PriorityFor maps CRITICAL to HIGH and everything else to MEDIUM.
func PriorityFor(sev Severity) Priority {
	if sev == SeverityCritical {
		return PriorityHigh
	}
	return PriorityMedium
}

// Alert is a confirmed anomaly. Resolution is handled elsewhere; alerts are created unresolved.
type Alert struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Category  Category  `json:"category"`
	Severity  Severity  `json:"severity"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
}
