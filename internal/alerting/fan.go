package alerting

import (
	"fmt"
	"time"

	"printwatch/internal/models"
)

type fanRule struct{}

func (fanRule) Name() string                    { return FamilyFan }
func (fanRule) Category() models.Category       { return models.CategoryFan }
func (fanRule) Dwell(s *Settings) time.Duration { return s.Fan.Dwell }
func (fanRule) Reset()                          {}

func (fanRule) Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error) {
	cfg := s.Fan
	var out []Detection
	for _, f := range snap.Fans {
		if f.Speed == nil || f.RPM == nil {
			continue
		}
		speed, rpm := *f.Speed, *f.RPM
		switch {
		case speed > cfg.StallSpeed && rpm == 0:
			out = append(out, detection("FN0001", f.Name,
				fmt.Sprintf("Ventilateur %s commandé mais RPM = 0 (bloqué ou débranché)", f.Name),
				models.SeverityWarning))
		case speed > cfg.FullSpeed && rpm > 0 && rpm < cfg.MinRPM:
			out = append(out, detection("FN0002", f.Name,
				fmt.Sprintf("Ventilateur %s à fond mais RPM anormalement bas (%.0f)", f.Name, rpm),
				models.SeverityWarning))
		}
	}
	return out, nil
}
