package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"printwatch/internal/models"
	"printwatch/internal/service"
)

func TestTelemetryHandler_Publish(t *testing.T) {
	tel := &mockTelemetry{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Telemetry: tel})

	body := `{"printer_id":"mk4","bed_temp":59.5,"bed_target":60,"bed_power":0.4,"fans":[{"name":"part_fan","speed":0.8,"rpm":4000}]}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodPost, "/api/v1/telemetry", bytes.NewBufferString(body)))
	if w.Code != http.StatusAccepted {
		t.Fatalf("publish status=%d, body=%s", w.Code, w.Body.String())
	}
	if len(tel.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(tel.published))
	}
	snap := tel.published[0]
	if snap.PrinterID != "mk4" || snap.BedTemp == nil || *snap.BedTemp != 59.5 || len(snap.Fans) != 1 {
		t.Fatalf("snapshot not decoded: %+v", snap)
	}
	if tel.lastOrigins[0] != service.OriginAPI {
		t.Fatalf("origin=%q", tel.lastOrigins[0])
	}
}

func TestTelemetryHandler_PublishErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed json", `{"bed_temp":`, nil, http.StatusBadRequest},
		{"invalid snapshot", `{}`, fmt.Errorf("%w: progress 120.0 outside 0..100", service.ErrInvalidSnapshot), http.StatusBadRequest},
		{"simulator owns telemetry", `{}`, service.ErrSimulatorActive, http.StatusConflict},
		{"persist failure", `{}`, errors.New("persist snapshot: locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tel := &mockTelemetry{publishErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Telemetry: tel})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, newAuthedRequest(http.MethodPost, "/api/v1/telemetry", bytes.NewBufferString(tc.body)))
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestTelemetryHandler_Latest(t *testing.T) {
	tel := &mockTelemetry{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Telemetry: tel})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodGet, "/api/v1/telemetry/latest", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any telemetry, got %d", w.Code)
	}

	tel.latest = &models.TelemetrySnapshot{PrinterID: "mk4", PrintState: models.String("printing")}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodGet, "/api/v1/telemetry/latest", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("latest status=%d", w.Code)
	}
	var snap models.TelemetrySnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.PrinterID != "mk4" || snap.PrintState == nil || *snap.PrintState != "printing" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
