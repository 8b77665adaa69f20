package models

import "time"

// Position is the live toolhead position in machine coordinates (mm).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	E float64 `json:"e"`
}

// FanReading is one fan as reported by the controller.
type FanReading struct {
	Name  string   `json:"name"`
	Speed *float64 `json:"speed,omitempty"` // commanded, 0..1
	RPM   *float64 `json:"rpm,omitempty"`   // measured
}

// StepperReading carries per-axis driver status.
type StepperReading struct {
	Axis             string  `json:"axis"` // x | y | z
	LastError        *string `json:"last_error,omitempty"`
	EndstopTriggered *bool   `json:"endstop_triggered,omitempty"`
}

// TelemetrySnapshot is one point-in-time reading of a printer.
// A nil field means the controller did not report it this tick.
// Snapshots are never mutated once published.
type TelemetrySnapshot struct {
	PrinterID  string    `json:"printer_id"`
	CapturedAt time.Time `json:"captured_at"`

	// Thermal
	BedTemp      *float64 `json:"bed_temp,omitempty"`
	BedTarget    *float64 `json:"bed_target,omitempty"`
	BedPower     *float64 `json:"bed_power,omitempty"` // 0..1
	NozzleTemp   *float64 `json:"nozzle_temp,omitempty"`
	NozzleTarget *float64 `json:"nozzle_target,omitempty"`
	NozzlePower  *float64 `json:"nozzle_power,omitempty"` // 0..1

	// Motion
	Position         *Position `json:"position,omitempty"`
	Velocity         *float64  `json:"velocity,omitempty"`
	ExtruderVelocity *float64  `json:"extruder_velocity,omitempty"`

	// Print job
	PrintState    *string  `json:"print_state,omitempty"`
	Filename      *string  `json:"filename,omitempty"`
	Progress      *float64 `json:"progress,omitempty"`       // 0..100
	PrintDuration *float64 `json:"print_duration,omitempty"` // seconds

	// Cooling
	Fans []FanReading `json:"fans,omitempty"`

	// Leveling
	ZTiltApplied *bool   `json:"z_tilt_applied,omitempty"`
	BedMesh      *string `json:"bed_mesh,omitempty"` // JSON 2-D matrix of height offsets

	// Axes
	Steppers []StepperReading `json:"steppers,omitempty"`
}

// Float returns a pointer to v. Handy for building snapshots.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
