package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"printwatch/internal/models"

	"github.com/google/uuid"
)

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

// Append inserts a new audit line. If ID or LoggedAt are empty, they're set.
func (r *AuditSQLite) Append(ctx context.Context, rec models.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.LoggedAt.IsZero() {
		rec.LoggedAt = time.Now().UTC()
	} else {
		rec.LoggedAt = rec.LoggedAt.UTC()
	}

	var actor sql.NullInt64
	if rec.ActorID != nil {
		actor = sql.NullInt64{Int64: int64(*rec.ActorID), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, logged_at, actor_id, action, details)
		VALUES (?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.LoggedAt,
		actor,
		strings.ToUpper(strings.TrimSpace(rec.Action)),
		rec.Details,
	)
	if err != nil {
		return fmt.Errorf("insert audit %s: %w", rec.Action, err)
	}
	return nil
}

// List returns audit lines filtered by [from, to] (inclusive) and/or action, ordered ASC.
func (r *AuditSQLite) List(ctx context.Context, from, to time.Time, action string) ([]models.AuditRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "logged_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "logged_at <= ?")
		args = append(args, to.UTC())
	}
	if action = strings.ToUpper(strings.TrimSpace(action)); action != "" {
		conds = append(conds, "action = ?")
		args = append(args, action)
	}

	q := `SELECT id, logged_at, actor_id, action, details FROM audit_log`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY logged_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AuditRecord, 0, 64)
	for rows.Next() {
		var (
			rec   models.AuditRecord
			actor sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.LoggedAt, &actor, &rec.Action, &rec.Details); err != nil {
			return nil, err
		}
		rec.LoggedAt = rec.LoggedAt.UTC()
		if actor.Valid {
			id := int(actor.Int64)
			rec.ActorID = &id
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
