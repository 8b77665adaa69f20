package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"printwatch/internal/models"
)

const (
	insertAlertSQL = `
		INSERT INTO alerts (code, title, details, category, severity, priority, created_at, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectAlertsSQL = `SELECT id, code, title, details, category, severity, priority, created_at, resolved FROM alerts`

	defaultAlertLimit = 100
	maxAlertLimit     = 1000
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

// Create inserts an alert and returns its id. A zero CreatedAt is set to now
// and a missing Priority is derived from Severity.
func (r *AlertSQLite) Create(ctx context.Context, a models.Alert) (int64, error) {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	priority := a.Priority
	if priority == "" {
		priority = models.PriorityFor(a.Severity)
	}

	res, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.Code,
		a.Title,
		a.Details,
		string(a.Category),
		string(a.Severity),
		string(priority),
		created.UTC(),
		a.Resolved,
	)
	if err != nil {
		return 0, fmt.Errorf("insert alert %s: %w", a.Code, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for alert %s: %w", a.Code, err)
	}
	return id, nil
}

// List returns alerts matching f, newest first. With AfterID set the order
// is oldest first so a stream can resume from the last id it saw.
func (r *AlertSQLite) List(ctx context.Context, f AlertFilter) ([]models.Alert, error) {
	var (
		conds []string
		args  []any
	)

	if f.Unresolved {
		conds = append(conds, "resolved = ?")
		args = append(args, false)
	}
	if c := strings.ToUpper(strings.TrimSpace(f.Category)); c != "" {
		conds = append(conds, "category = ?")
		args = append(args, c)
	}
	if c := strings.ToUpper(strings.TrimSpace(f.Code)); c != "" {
		conds = append(conds, "code = ?")
		args = append(args, c)
	}
	if f.AfterID > 0 {
		conds = append(conds, "id > ?")
		args = append(args, f.AfterID)
	}

	q := selectAlertsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.AfterID > 0 {
		q += " ORDER BY id ASC"
	} else {
		q += " ORDER BY id DESC"
	}
	q += " LIMIT ?"
	args = append(args, clampLimit(f.Limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 32)
	for rows.Next() {
		var (
			a                       models.Alert
			category, sev, priority string
		)
		if err := rows.Scan(&a.ID, &a.Code, &a.Title, &a.Details, &category, &sev, &priority, &a.CreatedAt, &a.Resolved); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Category = models.Category(category)
		a.Severity = models.Severity(sev)
		a.Priority = models.Priority(priority)
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultAlertLimit
	case n > maxAlertLimit:
		return maxAlertLimit
	default:
		return n
	}
}
