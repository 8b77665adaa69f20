package alerting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"printwatch/internal/models"
)

// Per-axis codes reported from stepper driver status.
var (
	homingCodes = map[string]string{"x": "CX2573", "y": "CY2577", "z": "CZ2581"}
	rangeCodes  = map[string]string{"x": "CX2585", "y": "CY2586", "z": "CZ2587"}
)

// motionRule catches a toolhead or extruder that is commanded to move but
// does not. It compares against the position seen on the previous tick.
type motionRule struct {
	prev *models.Position
}

func (r *motionRule) Name() string                    { return FamilyMotion }
func (r *motionRule) Category() models.Category       { return models.CategoryAxis }
func (r *motionRule) Dwell(s *Settings) time.Duration { return s.Motion.Dwell }
func (r *motionRule) Reset()                          { r.prev = nil }

func (r *motionRule) Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error) {
	prev := r.prev
	r.prev = nil
	if snap.Position != nil {
		p := *snap.Position
		r.prev = &p
	}

	cfg := s.Motion
	var out []Detection

	if prev != nil && snap.Position != nil {
		cur := snap.Position
		if v := valueOr(snap.Velocity, 0); v > cfg.MinVelocity {
			dx, dy, dz := cur.X-prev.X, cur.Y-prev.Y, cur.Z-prev.Z
			if math.Sqrt(dx*dx+dy*dy+dz*dz) < cfg.MinDisplacement {
				out = append(out, detection("CM3000", "toolhead",
					fmt.Sprintf("Buse bouchée : vitesse %.2f mm/s mais la tête ne bouge pas", v),
					models.SeverityWarning))
			}
		}
		if ev := valueOr(snap.ExtruderVelocity, 0); ev > cfg.MinVelocity {
			if math.Abs(cur.E-prev.E) < cfg.MinDisplacement {
				out = append(out, detection("CM3001", "extruder",
					fmt.Sprintf("Extrudeur bloqué : vitesse %.2f mm/s mais le filament n'avance pas", ev),
					models.SeverityWarning))
			}
		}
	}

	for _, st := range snap.Steppers {
		if d, ok := stepperDetection(st); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// stepperDetection maps a driver error on one axis to a homing or range
// anomaly. A reported error with the endstop not triggered means homing
// failed; any other error is treated as a move outside the axis limits.
func stepperDetection(st models.StepperReading) (Detection, bool) {
	if st.LastError == nil || strings.TrimSpace(*st.LastError) == "" {
		return Detection{}, false
	}
	axis := strings.TrimPrefix(strings.ToLower(st.Axis), "stepper_")
	ctx := "stepper_" + axis

	if st.EndstopTriggered != nil && !*st.EndstopTriggered {
		code, ok := homingCodes[axis]
		if !ok {
			return Detection{}, false
		}
		return detection(code, ctx, "Anomalie du repérage de l'axe "+strings.ToUpper(axis), models.SeverityWarning), true
	}
	code, ok := rangeCodes[axis]
	if !ok {
		return Detection{}, false
	}
	msg := fmt.Sprintf("Coordonnées de l'axe %s hors plage (%s)", strings.ToUpper(axis), *st.LastError)
	return detection(code, ctx, msg, models.SeverityWarning), true
}
