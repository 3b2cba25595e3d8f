package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type PricingRuleResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Kind          entity.RuleKind     `json:"kind"`
	Category      entity.RuleCategory `json:"category"`
	Magnitude     float64             `json:"magnitude"`
	Priority      int                 `json:"priority"`
	IsEnabled     bool                `json:"is_enabled"`
	StartTime     *string             `json:"start_time,omitempty"`
	EndTime       *string             `json:"end_time,omitempty"`
	AppliesToDays []int               `json:"applies_to_days,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type PriceQuoteResponse struct {
	BasePrice  float64            `json:"base_price"`
	TotalPrice float64            `json:"total_price"`
	Breakdown  []entity.PriceLine `json:"breakdown"`
}

// Helper converters
func PricingRuleToResponse(rule *entity.PricingRule) PricingRuleResponse {
	resp := PricingRuleResponse{
		ID:            rule.ID.String(),
		Name:          rule.Name,
		Kind:          rule.Kind,
		Category:      rule.Category,
		Magnitude:     rule.Magnitude,
		Priority:      rule.Priority,
		IsEnabled:     rule.IsEnabled,
		AppliesToDays: rule.AppliesToDays,
		CreatedAt:     rule.CreatedAt,
	}

	if rule.StartMinute != nil {
		start := utils.FormatClock(*rule.StartMinute)
		resp.StartTime = &start
	}
	if rule.EndMinute != nil {
		end := utils.FormatClock(*rule.EndMinute)
		resp.EndTime = &end
	}

	return resp
}
