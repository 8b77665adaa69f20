package service

import (
	"context"

	"printwatch/internal/alerting"
)

// LevelingChecker is satisfied by *alerting.Engine.
type LevelingChecker interface {
	CheckLeveling(ctx context.Context, actorID *int) (alerting.LevelingReport, error)
}

type LevelingService struct {
	checker LevelingChecker
}

func NewLevelingService(checker LevelingChecker) *LevelingService {
	return &LevelingService{checker: checker}
}

// Check runs the bed check and attributes any finding to the operator.
func (s *LevelingService) Check(ctx context.Context, actorID int) (alerting.LevelingReport, error) {
	return s.checker.CheckLeveling(ctx, &actorID)
}
