package service

import (
	"context"
	"time"

	"printwatch/internal/alerting"
	"printwatch/internal/logger"
	"printwatch/internal/models"
	"printwatch/internal/repository"
	"printwatch/internal/telemetry"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Alerts is read access to recorded alerts plus the code catalogue.
type Alerts interface {
	List(ctx context.Context, f AlertFilter) ([]models.Alert, error)
	Codes() []alerting.CatalogueEntry
}

// AuditLog exposes the append-only audit trail with filtering.
type AuditLog interface {
	List(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error)
}

// Telemetry is the acquisition entry point and the read side of the latest snapshot.
type Telemetry interface {
	Publish(ctx context.Context, snap models.TelemetrySnapshot, origin string) error
	Latest(ctx context.Context) (*models.TelemetrySnapshot, error)
}

// Leveling runs the on-demand bed check on behalf of an operator.
type Leveling interface {
	Check(ctx context.Context, actorID int) (alerting.LevelingReport, error)
}

// Simulator runs the background loop that publishes synthetic snapshots.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
	SetFault(name string) error
	Fault() string
}

// Config carries the service-level settings read from the config file.
type Config struct {
	Auth      AuthConfig
	Simulator SimulatorConfig
}

// Service aggregates all sub-services.
type Service struct {
	Alerts
	AuditLog
	Telemetry
	Leveling
	Simulator
	Authorization
}

// NewService wires the repository layer, the snapshot store and the rule
// engine into concrete services.
func NewService(repos *repository.Repository, store *telemetry.Store, engine LevelingChecker, cfg Config, log *logger.Logger) *Service {
	tel := NewTelemetryService(store, repos.SnapshotRepo, cfg.Simulator.Enabled)
	return &Service{
		Alerts:        NewAlertService(repos.AlertRepo),
		AuditLog:      NewAuditService(repos.AuditRepo),
		Telemetry:     tel,
		Leveling:      NewLevelingService(engine),
		Simulator:     NewSimulatorService(tel, cfg.Simulator, log),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
