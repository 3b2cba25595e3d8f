package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PricingRuleService is the admin surface for the rule table. Rules are
// validated at write time so the pricing engine never evaluates a malformed
// rule.
type PricingRuleService interface {
	CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error)
	UpdateRule(ctx context.Context, ruleID string, req *request.UpdatePricingRuleRequest) (*response.PricingRuleResponse, error)
	DeleteRule(ctx context.Context, ruleID string) error
	GetRuleByID(ctx context.Context, ruleID string) (*response.PricingRuleResponse, error)
	ListRules(ctx context.Context) ([]response.PricingRuleResponse, error)
}

type pricingRuleService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewPricingRuleService(repo *repository.Repository, log *zap.Logger) PricingRuleService {
	return &pricingRuleService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "pricing_rule")),
	}
}

// buildRule converts validated request fields into a rule entity, enforcing
// the structural constraints the engine relies on.
func buildRule(name, kind, category string, magnitude float64, priority int, enabled bool, startTime, endTime *string, days []int) (*entity.PricingRule, error) {
	rule := &entity.PricingRule{
		Name:          name,
		Kind:          entity.RuleKind(kind),
		Category:      entity.RuleCategory(category),
		Magnitude:     magnitude,
		Priority:      priority,
		IsEnabled:     enabled,
		AppliesToDays: days,
	}

	if magnitude < 0 {
		return nil, fmt.Errorf("magnitude must not be negative: %w", ErrInvalidRule)
	}

	if (startTime == nil) != (endTime == nil) {
		return nil, fmt.Errorf("time window needs both start and end: %w", ErrInvalidRule)
	}
	if startTime != nil {
		start, err := utils.ParseClock(*startTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start time %s: %w", *startTime, ErrInvalidRule)
		}
		end, err := utils.ParseClock(*endTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end time %s: %w", *endTime, ErrInvalidRule)
		}
		if start >= end {
			return nil, fmt.Errorf("start time must precede end time: %w", ErrInvalidRule)
		}
		rule.StartMinute = &start
		rule.EndMinute = &end
	}

	switch rule.Category {
	case entity.RuleCategoryEquipmentFee, entity.RuleCategoryCoachFee:
		if rule.Kind != entity.RuleKindFlat {
			return nil, fmt.Errorf("category %s requires FLAT kind: %w", category, ErrInvalidRule)
		}
	}

	return rule, nil
}

func (s *pricingRuleService) CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidRule)
	}

	rule, err := buildRule(req.Name, req.Kind, req.Category, req.Magnitude, req.Priority, req.IsEnabled, req.StartTime, req.EndTime, req.AppliesToDays)
	if err != nil {
		return nil, err
	}
	rule.ID = uuid.New()
	rule.CreatedAt = s.now()
	rule.UpdatedAt = rule.CreatedAt

	if err := s.repo.PricingRule.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.log.Info("Pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("category", string(rule.Category)),
	)
	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingRuleService) UpdateRule(ctx context.Context, ruleID string, req *request.UpdatePricingRuleRequest) (*response.PricingRuleResponse, error) {
	ruleUUID, err := uuid.Parse(ruleID)
	if err != nil {
		return nil, fmt.Errorf("invalid rule ID format %s: %w", ruleID, ErrInvalidInput)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidRule)
	}

	existing, err := s.repo.PricingRule.FindByID(ctx, ruleUUID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("pricing rule %s: %w", ruleID, ErrNotFound)
	}

	rule, err := buildRule(req.Name, req.Kind, req.Category, req.Magnitude, req.Priority, req.IsEnabled, req.StartTime, req.EndTime, req.AppliesToDays)
	if err != nil {
		return nil, err
	}
	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = s.now()

	if err := s.repo.PricingRule.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.log.Info("Pricing rule updated", zap.String("rule_id", ruleID))
	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingRuleService) DeleteRule(ctx context.Context, ruleID string) error {
	ruleUUID, err := uuid.Parse(ruleID)
	if err != nil {
		return fmt.Errorf("invalid rule ID format %s: %w", ruleID, ErrInvalidInput)
	}

	existing, err := s.repo.PricingRule.FindByID(ctx, ruleUUID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("pricing rule %s: %w", ruleID, ErrNotFound)
	}

	if err := s.repo.PricingRule.Delete(ctx, ruleUUID); err != nil {
		return err
	}

	s.log.Info("Pricing rule deleted", zap.String("rule_id", ruleID))
	return nil
}

func (s *pricingRuleService) GetRuleByID(ctx context.Context, ruleID string) (*response.PricingRuleResponse, error) {
	ruleUUID, err := uuid.Parse(ruleID)
	if err != nil {
		return nil, fmt.Errorf("invalid rule ID format %s: %w", ruleID, ErrInvalidInput)
	}

	rule, err := s.repo.PricingRule.FindByID(ctx, ruleUUID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, fmt.Errorf("pricing rule %s: %w", ruleID, ErrNotFound)
	}

	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingRuleService) ListRules(ctx context.Context) ([]response.PricingRuleResponse, error) {
	rules, err := s.repo.PricingRule.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.PricingRuleResponse, 0, len(rules))
	for _, rule := range rules {
		items = append(items, response.PricingRuleToResponse(rule))
	}
	return items, nil
}
