package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"printwatch/internal/models"
)

// SnapshotSQLite keeps the last snapshot so the API can show it after a restart.
type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

const (
	snapshotRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO telemetry_snapshots (id, printer_id, captured_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			printer_id=excluded.printer_id,
			captured_at=excluded.captured_at,
			payload=excluded.payload
	`

	selectSnapshotSQL = `SELECT payload FROM telemetry_snapshots WHERE id=?`
)

// Save replaces the stored snapshot row (id always 1).
func (r *SnapshotSQLite) Save(ctx context.Context, s models.TelemetrySnapshot) error {
	if s.CapturedAt.IsZero() {
		s.CapturedAt = time.Now().UTC()
	} else {
		s.CapturedAt = s.CapturedAt.UTC()
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertSnapshotSQL,
		snapshotRowID,
		s.PrinterID,
		s.CapturedAt,
		string(payload),
	)
	return err
}

// Load returns the stored snapshot, or nil when none was saved yet.
func (r *SnapshotSQLite) Load(ctx context.Context) (*models.TelemetrySnapshot, error) {
	var payload string
	if err := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var s models.TelemetrySnapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
