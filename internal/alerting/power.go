package alerting

import (
	"strings"
	"time"

	"printwatch/internal/models"
)

// powerRule flags a job that has a file and progress but is no longer
// printing, which is what a restart after a power cut looks like.
type powerRule struct{}

func (powerRule) Name() string                    { return FamilyPower }
func (powerRule) Category() models.Category       { return models.CategoryPower }
func (powerRule) Dwell(s *Settings) time.Duration { return s.Power.Dwell }
func (powerRule) Reset()                          {}

func (powerRule) Detect(snap *models.TelemetrySnapshot, s *Settings) ([]Detection, error) {
	if snap.Filename == nil || strings.TrimSpace(*snap.Filename) == "" {
		return nil, nil
	}
	progress := valueOr(snap.Progress, 0)
	duration := valueOr(snap.PrintDuration, 0)
	started := (progress > 0 && progress < 100) || duration > 0
	if !started {
		return nil, nil
	}

	state := "unknown"
	if snap.PrintState != nil {
		state = *snap.PrintState
	}
	if strings.EqualFold(state, s.Power.PrintingState) {
		return nil, nil
	}

	file := *snap.Filename
	return []Detection{
		detection("CM0115", file, "Tâche inachevée détectée pour le fichier: "+file, models.SeverityCritical),
	}, nil
}
