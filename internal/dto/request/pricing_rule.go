package request

type CreatePricingRuleRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Kind          string  `json:"kind" validate:"required,oneof=PERCENTAGE FLAT"`
	Category      string  `json:"category" validate:"required,oneof=PEAK_HOURS WEEKEND INDOOR_PREMIUM EQUIPMENT_FEE COACH_FEE"`
	Magnitude     float64 `json:"magnitude" validate:"min=0"`
	Priority      int     `json:"priority"`
	IsEnabled     bool    `json:"is_enabled"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	AppliesToDays []int   `json:"applies_to_days,omitempty" validate:"omitempty,dive,min=0,max=6"`
}

type UpdatePricingRuleRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Kind          string  `json:"kind" validate:"required,oneof=PERCENTAGE FLAT"`
	Category      string  `json:"category" validate:"required,oneof=PEAK_HOURS WEEKEND INDOOR_PREMIUM EQUIPMENT_FEE COACH_FEE"`
	Magnitude     float64 `json:"magnitude" validate:"min=0"`
	Priority      int     `json:"priority"`
	IsEnabled     bool    `json:"is_enabled"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	AppliesToDays []int   `json:"applies_to_days,omitempty" validate:"omitempty,dive,min=0,max=6"`
}
