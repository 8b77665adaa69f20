package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"printwatch/internal/alerting"
	"printwatch/internal/models"
	"printwatch/internal/repository"
)

var ErrInvalidCategory = errors.New("unknown alert category")

var knownCategories = map[models.Category]struct{}{
	models.CategoryHeatbed:  {},
	models.CategoryPower:    {},
	models.CategoryAxis:     {},
	models.CategoryFan:      {},
	models.CategoryExtruder: {},
	models.CategoryLeveling: {},
}

type AlertService struct {
	alertRepo repository.AlertRepo
}

func NewAlertService(alertRepo repository.AlertRepo) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

func (s *AlertService) List(ctx context.Context, f AlertFilter) ([]models.Alert, error) {
	category := strings.ToUpper(strings.TrimSpace(f.Category))
	if category != "" {
		if _, ok := knownCategories[models.Category(category)]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
		}
	}
	return s.alertRepo.List(ctx, repository.AlertFilter{
		Unresolved: f.Unresolved,
		Category:   category,
		Code:       f.Code,
		AfterID:    f.AfterID,
		Limit:      f.Limit,
	})
}

func (s *AlertService) Codes() []alerting.CatalogueEntry {
	return alerting.Catalogue()
}
