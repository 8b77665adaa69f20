package service

import (
	"context"
	"testing"

	"printwatch/internal/alerting"
)

type checkerStub struct {
	gotActor *int
	report   alerting.LevelingReport
	err      error
}

func (c *checkerStub) CheckLeveling(_ context.Context, actorID *int) (alerting.LevelingReport, error) {
	c.gotActor = actorID
	return c.report, c.err
}

func TestLevelingService_Check_AttributesOperator(t *testing.T) {
	stub := &checkerStub{report: alerting.LevelingReport{Code: "ZT0001"}}
	svc := NewLevelingService(stub)

	got, err := svc.Check(context.Background(), 12)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got.Code != "ZT0001" {
		t.Fatalf("unexpected report: %+v", got)
	}
	if stub.gotActor == nil || *stub.gotActor != 12 {
		t.Fatalf("expected actor 12, got %v", stub.gotActor)
	}
}
