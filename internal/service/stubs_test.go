package service

import (
	"context"
	"sync"
	"time"

	"printwatch/internal/models"
	"printwatch/internal/repository"
)

// fakeAlertRepo satisfies repository.AlertRepo.
type fakeAlertRepo struct {
	mu        sync.Mutex
	created   []models.Alert
	nextID    int64
	createErr error

	gotFilter repository.AlertFilter
	list      []models.Alert
	listErr   error
}

func (f *fakeAlertRepo) Create(_ context.Context, a models.Alert) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	f.created = append(f.created, a)
	return f.nextID, nil
}

func (f *fakeAlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]models.Alert, error) {
	f.gotFilter = filter
	return f.list, f.listErr
}

// fakeAuditRepo satisfies repository.AuditRepo.
type fakeAuditRepo struct {
	mu       sync.Mutex
	appended []models.AuditRecord
	err      error

	gotFrom, gotTo time.Time
	gotAction      string
	calls          int
	records        []models.AuditRecord
}

func (f *fakeAuditRepo) Append(_ context.Context, r models.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, r)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, from, to time.Time, action string) ([]models.AuditRecord, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotAction = from, to, action
	return f.records, f.err
}

// fakeSnapshotRepo satisfies repository.SnapshotRepo.
type fakeSnapshotRepo struct {
	saved   []models.TelemetrySnapshot
	saveErr error
	stored  *models.TelemetrySnapshot
	loadErr error
}

func (f *fakeSnapshotRepo) Save(_ context.Context, s models.TelemetrySnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSnapshotRepo) Load(context.Context) (*models.TelemetrySnapshot, error) {
	return f.stored, f.loadErr
}
