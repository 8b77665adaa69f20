package service

import (
	"context"
	"errors"
	"testing"

	"printwatch/internal/models"
	"printwatch/internal/repository"
)

func TestAlertService_List_PassesFilter(t *testing.T) {
	repo := &fakeAlertRepo{list: []models.Alert{{ID: 3, Code: "FN0001"}}}
	svc := NewAlertService(repo)

	got, err := svc.List(context.Background(), AlertFilter{Unresolved: true, Category: " fan ", Code: "FN0001", Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("unexpected alerts: %+v", got)
	}
	want := repository.AlertFilter{Unresolved: true, Category: "FAN", Code: "FN0001", Limit: 10}
	if repo.gotFilter != want {
		t.Fatalf("filter: want %+v, got %+v", want, repo.gotFilter)
	}
}

func TestAlertService_List_UnknownCategory(t *testing.T) {
	svc := NewAlertService(&fakeAlertRepo{})
	_, err := svc.List(context.Background(), AlertFilter{Category: "TOASTER"})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAlertService_Codes(t *testing.T) {
	codes := NewAlertService(&fakeAlertRepo{}).Codes()
	found := false
	for _, c := range codes {
		if c.Code == "CM0115" && c.Description != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CM0115 in catalogue, got %+v", codes)
	}
}
