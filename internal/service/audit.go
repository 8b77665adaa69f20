package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"printwatch/internal/models"
	"printwatch/internal/repository"
)

type AuditService struct {
	auditRepo repository.AuditRepo
}

func NewAuditService(auditRepo repository.AuditRepo) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAuditFilter prepares query parameters and validates the time range.
func normalizeAuditFilter(f AuditFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}
	return from, to, strings.TrimSpace(strings.ToUpper(f.Action)), nil
}

func (s *AuditService) List(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error) {
	from, to, action, err := normalizeAuditFilter(f)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.List(ctx, from, to, action)
}
