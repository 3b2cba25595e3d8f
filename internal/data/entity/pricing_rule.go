package entity

type RuleKind string

const (
	RuleKindPercentage RuleKind = "PERCENTAGE"
	RuleKindFlat       RuleKind = "FLAT"
)

type RuleCategory string

const (
	RuleCategoryPeakHours     RuleCategory = "PEAK_HOURS"
	RuleCategoryWeekend       RuleCategory = "WEEKEND"
	RuleCategoryIndoorPremium RuleCategory = "INDOOR_PREMIUM"
	RuleCategoryEquipmentFee  RuleCategory = "EQUIPMENT_FEE"
	RuleCategoryCoachFee      RuleCategory = "COACH_FEE"
)

// PricingRule is an admin-configured pricing step. For PERCENTAGE rules
// Magnitude is a fractional rate added on the running subtotal (0.20 = +20%);
// for FLAT rules it is the amount added (per item for EQUIPMENT_FEE; ignored
// for COACH_FEE, which charges the coach's stored hourly fee instead).
type PricingRule struct {
	Base
	Name      string       `db:"name"`
	Kind      RuleKind     `db:"kind"`
	Category  RuleCategory `db:"category"`
	Magnitude float64      `db:"magnitude"`
	// Priority orders rule application, ascending; ties break on rule id.
	Priority  int  `db:"priority"`
	IsEnabled bool `db:"is_enabled"`

	// Optional time-window constraint, minutes since midnight.
	StartMinute *int `db:"start_minute"`
	EndMinute   *int `db:"end_minute"`
	// Optional day-of-week constraint, time.Weekday numbering.
	AppliesToDays []int `db:"applies_to_days"`
}

// AppliesOnDay reports whether the rule's day constraint admits the day.
// A rule with no day constraint applies on all days.
func (r *PricingRule) AppliesOnDay(day int) bool {
	if len(r.AppliesToDays) == 0 {
		return true
	}
	for _, d := range r.AppliesToDays {
		if d == day {
			return true
		}
	}
	return false
}

// OverlapsTime reports whether the rule's time window overlaps the slot's
// time range. A rule with no window applies at all times.
func (r *PricingRule) OverlapsTime(startMinute, endMinute int) bool {
	if r.StartMinute == nil || r.EndMinute == nil {
		return true
	}
	return startMinute < *r.EndMinute && endMinute > *r.StartMinute
}
