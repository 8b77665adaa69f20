package alerting

import (
	"fmt"
	"time"

	"printwatch/internal/models"
)

// heatbedRule watches the heated bed. It remembers the previous bed
// temperature to tell whether a fully powered bed is actually heating.
type heatbedRule struct {
	prevTemp *float64
}

func (r *heatbedRule) Name() string                    { return FamilyHeatbed }
func (r *heatbedRule) Category() models.Category       { return models.CategoryHeatbed }
func (r *heatbedRule) Dwell(s *Settings) time.Duration { return s.Heatbed.Dwell }
func (r *heatbedRule) Reset()                          { r.prevTemp = nil }

func (r *heatbedRule) Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error) {
	prev := r.prevTemp
	r.prevTemp = nil
	if snap.BedTemp == nil {
		return nil, nil
	}
	temp := *snap.BedTemp
	r.prevTemp = models.Float(temp)

	cfg := s.Heatbed
	target := valueOr(snap.BedTarget, 0)
	var out []Detection
	add := func(code, variant, msg string) {
		out = append(out, detection(code, "heater_bed/"+variant, msg, models.SeverityWarning))
	}

	if snap.BedPower != nil && target > 0 && temp < target-cfg.Band && *snap.BedPower < cfg.NoCurrentPower {
		add("CB2565", "no_current", "Aucun courant détecté dans le lit chauffant")
	}
	if temp <= cfg.OpenCircuitTemp || temp == 0 {
		add("CB2510", "open_circuit", "Circuit ouvert de la thermistance du lit chauffant")
	}
	if target > 0 && temp < target-cfg.Band {
		add("CB2565", "too_low", "Température trop basse, le capteur est peut être déconnecté")
	}
	if target > 0 && temp > target+cfg.Band {
		add("CB2565", "too_high", "Température trop haute, le capteur est peut être déconnecté")
	}
	if temp > cfg.ShortTemp {
		add("CB2516", "short", fmt.Sprintf("Température > %.0f°C, la thermistance du lit est en court-circuit", cfg.ShortTemp))
	}
	if prev != nil && snap.BedPower != nil && target > temp && *snap.BedPower >= 1.0 && temp-*prev < cfg.MinRise {
		add("CB2565", "not_heating", "La température n'augmente pas.")
	}
	return out, nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
