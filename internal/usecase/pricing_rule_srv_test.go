package usecase

import (
	"context"
	"errors"
	"testing"

	"court-booking/internal/dto/request"

	"go.uber.org/zap"
)

func newPricingRuleService(t *testing.T) (PricingRuleService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewPricingRuleService(newMemRepository(store), zap.NewNop()), store
}

func validRuleRequest() *request.CreatePricingRuleRequest {
	return &request.CreatePricingRuleRequest{
		Name:      "Evening Peak",
		Kind:      "PERCENTAGE",
		Category:  "PEAK_HOURS",
		Magnitude: 0.5,
		Priority:  2,
		IsEnabled: true,
	}
}

func TestCreateRule_Valid(t *testing.T) {
	svc, store := newPricingRuleService(t)

	start, end := "18:00", "21:00"
	req := validRuleRequest()
	req.StartTime, req.EndTime = &start, &end
	req.AppliesToDays = []int{1, 2, 3, 4, 5}

	rule, err := svc.CreateRule(context.Background(), req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rule.StartTime == nil || *rule.StartTime != "18:00" {
		t.Fatalf("StartTime = %v, want 18:00", rule.StartTime)
	}
	if len(store.rules) != 1 {
		t.Fatalf("store holds %d rules, want 1", len(store.rules))
	}
}

func TestCreateRule_RejectsHalfOpenWindow(t *testing.T) {
	svc, _ := newPricingRuleService(t)

	start := "18:00"
	req := validRuleRequest()
	req.StartTime = &start

	if _, err := svc.CreateRule(context.Background(), req); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule for start without end", err)
	}
}

func TestCreateRule_RejectsInvertedWindow(t *testing.T) {
	svc, _ := newPricingRuleService(t)

	start, end := "21:00", "18:00"
	req := validRuleRequest()
	req.StartTime, req.EndTime = &start, &end

	if _, err := svc.CreateRule(context.Background(), req); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule for inverted window", err)
	}
}

func TestCreateRule_RejectsBadKindOrDays(t *testing.T) {
	svc, _ := newPricingRuleService(t)

	req := validRuleRequest()
	req.Kind = "DISCOUNT"
	if _, err := svc.CreateRule(context.Background(), req); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule for unknown kind", err)
	}

	req = validRuleRequest()
	req.AppliesToDays = []int{7}
	if _, err := svc.CreateRule(context.Background(), req); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule for day out of range", err)
	}
}

func TestCreateRule_FeeCategoriesMustBeFlat(t *testing.T) {
	svc, _ := newPricingRuleService(t)

	req := validRuleRequest()
	req.Category = "EQUIPMENT_FEE"
	req.Kind = "PERCENTAGE"
	if _, err := svc.CreateRule(context.Background(), req); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule for percentage equipment fee", err)
	}
}

func TestUpdateRule_NotFound(t *testing.T) {
	svc, _ := newPricingRuleService(t)

	_, err := svc.UpdateRule(context.Background(), "b2f8f6b0-0000-4000-8000-000000000000", &request.UpdatePricingRuleRequest{
		Name:      "Renamed",
		Kind:      "FLAT",
		Category:  "PEAK_HOURS",
		Magnitude: 100,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAndDeleteRule(t *testing.T) {
	svc, store := newPricingRuleService(t)
	ctx := context.Background()

	created, err := svc.CreateRule(ctx, validRuleRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateRule(ctx, created.ID, &request.UpdatePricingRuleRequest{
		Name:      "Late Peak",
		Kind:      "PERCENTAGE",
		Category:  "PEAK_HOURS",
		Magnitude: 0.75,
		Priority:  3,
		IsEnabled: false,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Late Peak" || updated.Magnitude != 0.75 || updated.IsEnabled {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.DeleteRule(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.rules) != 0 {
		t.Fatalf("store holds %d rules after delete, want 0", len(store.rules))
	}
	if err := svc.DeleteRule(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound on second delete", err)
	}
}
