package alerting

import (
	"time"

	"printwatch/internal/models"
)

type extruderRule struct{}

func (extruderRule) Name() string                    { return FamilyExtruder }
func (extruderRule) Category() models.Category       { return models.CategoryExtruder }
func (extruderRule) Dwell(s *Settings) time.Duration { return s.Extruder.Dwell }
func (extruderRule) Reset()                          {}

func (extruderRule) Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error) {
	if snap.NozzleTemp == nil {
		return nil, nil
	}
	cfg := s.Extruder
	temp := *snap.NozzleTemp
	target := valueOr(snap.NozzleTarget, 0)
	power := valueOr(snap.NozzlePower, 0)

	var out []Detection
	if target > 0 && power > cfg.MinPower && temp < target-cfg.Band {
		out = append(out, detection("EX0001", "extruder/not_rising",
			"Extrudeur chauffe mais température trop basse (cartouche ou thermistance)",
			models.SeverityWarning))
	}
	if temp < cfg.MinTemp || temp > cfg.MaxTemp {
		out = append(out, detection("EX0002", "extruder/incoherent",
			"Température extrudeur incohérente (sonde en court-circuit ou ouverte)",
			models.SeverityWarning))
	}
	return out, nil
}
