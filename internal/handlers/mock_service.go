package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"printwatch/internal/alerting"
	"printwatch/internal/models"
	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockAlerts is called from the websocket goroutine too, hence the mutex.
type mockAlerts struct {
	mu      sync.Mutex
	resp    []models.Alert
	err     error
	listFn  func(service.AlertFilter) ([]models.Alert, error)
	filters []service.AlertFilter
	codes   []alerting.CatalogueEntry
}

func (m *mockAlerts) List(_ context.Context, f service.AlertFilter) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, f)
	if m.listFn != nil {
		return m.listFn(f)
	}
	return m.resp, m.err
}
func (m *mockAlerts) Codes() []alerting.CatalogueEntry { return m.codes }

func (m *mockAlerts) lastFilter() service.AlertFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.filters) == 0 {
		return service.AlertFilter{}
	}
	return m.filters[len(m.filters)-1]
}

type mockAudit struct {
	resp       []models.AuditRecord
	err        error
	lastFilter service.AuditFilter
}

func (m *mockAudit) List(_ context.Context, f service.AuditFilter) ([]models.AuditRecord, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockTelemetry struct {
	mu          sync.Mutex
	latest      *models.TelemetrySnapshot
	latestErr   error
	publishErr  error
	published   []models.TelemetrySnapshot
	lastOrigins []string
}

func (m *mockTelemetry) Publish(_ context.Context, snap models.TelemetrySnapshot, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, snap)
	m.lastOrigins = append(m.lastOrigins, origin)
	return m.publishErr
}
func (m *mockTelemetry) Latest(context.Context) (*models.TelemetrySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.latestErr
}

type mockLeveling struct {
	report    alerting.LevelingReport
	err       error
	lastActor int
	calls     int
}

func (m *mockLeveling) Check(_ context.Context, actorID int) (alerting.LevelingReport, error) {
	m.calls++
	m.lastActor = actorID
	return m.report, m.err
}

type mockSimulator struct {
	fault    string
	setErr   error
	setCalls []string
}

func (m *mockSimulator) Run(context.Context, time.Duration) {}
func (m *mockSimulator) SetFault(name string) error {
	m.setCalls = append(m.setCalls, name)
	if m.setErr != nil {
		return m.setErr
	}
	m.fault = name
	return nil
}
func (m *mockSimulator) Fault() string { return m.fault }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
