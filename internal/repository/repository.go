package repository

import (
	"context"
	"database/sql"
	"time"

	"printwatch/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type AlertRepo interface {
	Create(ctx context.Context, a models.Alert) (int64, error)
	List(ctx context.Context, f AlertFilter) ([]models.Alert, error)
}

type AuditRepo interface {
	Append(ctx context.Context, r models.AuditRecord) error
	List(ctx context.Context, from, to time.Time, action string) ([]models.AuditRecord, error)
}

type SnapshotRepo interface {
	Save(ctx context.Context, s models.TelemetrySnapshot) error
	Load(ctx context.Context) (*models.TelemetrySnapshot, error)
}

// AlertFilter narrows an alert listing. Zero values mean "no filter".
type AlertFilter struct {
	Unresolved bool
	Category   string
	Code       string
	AfterID    int64 // only alerts with id > AfterID
	Limit      int
}

type Repository struct {
	AlertRepo    AlertRepo
	AuditRepo    AuditRepo
	SnapshotRepo SnapshotRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		AlertRepo:    NewAlertSQLite(db),
		AuditRepo:    NewAuditSQLite(db),
		SnapshotRepo: NewSnapshotSQLite(db),
		Auth:         NewUserRepository(db),
	}
}
