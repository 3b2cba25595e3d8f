package request

type BookingEquipmentItem struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid4"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type ConfirmBookingRequest struct {
	CourtID   string                 `json:"court_id" validate:"required,uuid4"`
	Date      string                 `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string                 `json:"start_time" validate:"required"`
	EndTime   string                 `json:"end_time" validate:"required"`
	Equipment []BookingEquipmentItem `json:"equipment,omitempty" validate:"omitempty,dive"`
	CoachID   *string                `json:"coach_id,omitempty" validate:"omitempty,uuid4"`
}

// CalculatePriceRequest mirrors ConfirmBookingRequest: a quote is priced
// exactly the way the booking it previews would be.
type CalculatePriceRequest struct {
	CourtID   string                 `json:"court_id" validate:"required,uuid4"`
	Date      string                 `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string                 `json:"start_time" validate:"required"`
	EndTime   string                 `json:"end_time" validate:"required"`
	Equipment []BookingEquipmentItem `json:"equipment,omitempty" validate:"omitempty,dive"`
	CoachID   *string                `json:"coach_id,omitempty" validate:"omitempty,uuid4"`
}
