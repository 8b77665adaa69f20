package alerting

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"printwatch/internal/models"
)

var ErrInvalidMesh = errors.New("invalid bed mesh")

// LevelingReport is the outcome of one on-demand bed check.
type LevelingReport struct {
	OK       bool            `json:"ok"`
	Code     string          `json:"code,omitempty"`
	Severity models.Severity `json:"severity,omitempty"`
	Message  string          `json:"message"`
	DeltaMM  *float64        `json:"delta_mm,omitempty"`
}

// AssessLeveling is the point-in-time bed check. Z-tilt is checked first;
// the mesh is only looked at once tilt compensation has been applied.
func AssessLeveling(snap *models.TelemetrySnapshot, cfg LevelingSettings) LevelingReport {
	if snap.ZTiltApplied == nil || !*snap.ZTiltApplied {
		return LevelingReport{
			Code:     "ZT0001",
			Severity: models.SeverityInfo,
			Message:  "Plateau non ajusté horizontalement : Z_TILT_ADJUST non appliqué",
		}
	}

	if snap.BedMesh == nil {
		return meshInvalid()
	}
	delta, err := MeshDelta(*snap.BedMesh)
	if err != nil {
		return meshInvalid()
	}
	if delta > cfg.MaxDelta {
		return LevelingReport{
			Code:     "BM0001",
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Plateau trop bosselé malgré z_tilt (Δ=%.2f mm > %.2f mm)", delta, cfg.MaxDelta),
			DeltaMM:  &delta,
		}
	}
	return LevelingReport{
		OK:      true,
		Message: fmt.Sprintf("Plateau conforme (Δ=%.2f mm)", delta),
		DeltaMM: &delta,
	}
}

func meshInvalid() LevelingReport {
	return LevelingReport{
		Code:     "BM0000",
		Severity: models.SeverityWarning,
		Message:  "Bed mesh absent ou invalide",
	}
}

// MeshDelta returns max-min over a JSON matrix of probed heights.
// Rows may have different lengths.
func MeshDelta(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidMesh)
	}
	var grid [][]float64
	if err := json.Unmarshal([]byte(raw), &grid); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, row := range grid {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no probe points", ErrInvalidMesh)
	}
	return hi - lo, nil
}

func (r LevelingReport) detection() Detection {
	return detection(r.Code, "bed", r.Message, r.Severity)
}
