package usecase

import (
	"sort"
	"time"

	"court-booking/internal/data/entity"
)

// PriceContext carries the booking facts a pricing rule may condition on.
type PriceContext struct {
	Date        time.Time
	StartMinute int
	EndMinute   int
	Indoor      bool

	// EquipmentQuantity is the total number of items requested across all
	// equipment types; EQUIPMENT_FEE rules charge per item.
	EquipmentQuantity int

	// CoachFee is the selected coach's hourly fee; nil when no coach is
	// requested. COACH_FEE rules charge this amount instead of their own
	// magnitude.
	CoachFee *float64
}

// PriceBreakdown is the audited result of a price computation. Lines appear
// in application order; each subtotal reflects every rule applied before it.
type PriceBreakdown struct {
	BasePrice  float64
	TotalPrice float64
	Lines      []entity.PriceLine
}

// ComputePrice folds the applicable rules over the base price. It is a pure
// function of its inputs: rules are filtered to enabled ones whose time, day
// and category conditions match the context, sorted by priority ascending with
// rule id breaking ties, then applied left to right. A PERCENTAGE rule adds
// subtotal*magnitude to the running subtotal, so its effect compounds on
// everything applied before it; a FLAT rule adds its magnitude, except that
// EQUIPMENT_FEE charges magnitude per requested item and COACH_FEE charges the
// coach's stored hourly fee.
func ComputePrice(basePrice float64, pctx PriceContext, rules []*entity.PricingRule) *PriceBreakdown {
	applicable := make([]*entity.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if ruleApplies(rule, pctx) {
			applicable = append(applicable, rule)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		if applicable[i].Priority != applicable[j].Priority {
			return applicable[i].Priority < applicable[j].Priority
		}
		return applicable[i].ID.String() < applicable[j].ID.String()
	})

	subtotal := basePrice
	lines := make([]entity.PriceLine, 0, len(applicable))
	for _, rule := range applicable {
		amount := ruleAmount(rule, pctx, subtotal)
		subtotal += amount
		lines = append(lines, entity.PriceLine{
			RuleName:      rule.Name,
			Kind:          rule.Kind,
			Category:      rule.Category,
			AmountApplied: amount,
			SubtotalAfter: subtotal,
		})
	}

	return &PriceBreakdown{
		BasePrice:  basePrice,
		TotalPrice: subtotal,
		Lines:      lines,
	}
}

func ruleApplies(rule *entity.PricingRule, pctx PriceContext) bool {
	if !rule.IsEnabled {
		return false
	}
	if !rule.AppliesOnDay(int(pctx.Date.Weekday())) {
		return false
	}
	if !rule.OverlapsTime(pctx.StartMinute, pctx.EndMinute) {
		return false
	}

	switch rule.Category {
	case entity.RuleCategoryIndoorPremium:
		return pctx.Indoor
	case entity.RuleCategoryEquipmentFee:
		return pctx.EquipmentQuantity > 0
	case entity.RuleCategoryCoachFee:
		return pctx.CoachFee != nil
	default:
		return true
	}
}

func ruleAmount(rule *entity.PricingRule, pctx PriceContext, subtotal float64) float64 {
	if rule.Kind == entity.RuleKindPercentage {
		return subtotal * rule.Magnitude
	}

	switch rule.Category {
	case entity.RuleCategoryEquipmentFee:
		return rule.Magnitude * float64(pctx.EquipmentQuantity)
	case entity.RuleCategoryCoachFee:
		return *pctx.CoachFee
	default:
		return rule.Magnitude
	}
}
