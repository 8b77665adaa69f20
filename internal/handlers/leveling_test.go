package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"printwatch/internal/alerting"
	"printwatch/internal/models"
	"printwatch/internal/service"
)

func TestLevelingHandler_CheckUsesCaller(t *testing.T) {
	delta := 0.85
	lev := &mockLeveling{report: alerting.LevelingReport{
		Code:     "BM0001",
		Severity: models.SeverityWarning,
		Message:  "Plateau trop bosselé malgré z_tilt (Δ=0.85 mm > 0.60 mm)",
		DeltaMM:  &delta,
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Leveling: lev})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodPost, "/api/v1/leveling/check", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("leveling status=%d, body=%s", w.Code, w.Body.String())
	}
	if lev.calls != 1 || lev.lastActor != 7 {
		t.Fatalf("expected one check for actor 7, got calls=%d actor=%d", lev.calls, lev.lastActor)
	}
	var out alerting.LevelingReport
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Code != "BM0001" || out.DeltaMM == nil || *out.DeltaMM != 0.85 || out.OK {
		t.Fatalf("unexpected report: %+v", out)
	}
}

func TestLevelingHandler_NoTelemetryIs409(t *testing.T) {
	lev := &mockLeveling{err: fmt.Errorf("check leveling: %w", alerting.ErrNoTelemetry)}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Leveling: lev})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodPost, "/api/v1/leveling/check", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
