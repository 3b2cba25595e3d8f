package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type BookingEquipmentResponse struct {
	EquipmentID   string `json:"equipment_id"`
	EquipmentName string `json:"equipment_name,omitempty"`
	Quantity      int    `json:"quantity"`
}

type BookingResponse struct {
	ID         string                     `json:"id"`
	UserID     string                     `json:"user_id"`
	CourtID    string                     `json:"court_id"`
	CourtName  string                     `json:"court_name,omitempty"`
	Date       string                     `json:"date"`
	StartTime  string                     `json:"start_time"`
	EndTime    string                     `json:"end_time"`
	CoachID    *string                    `json:"coach_id,omitempty"`
	CoachName  string                     `json:"coach_name,omitempty"`
	Equipment  []BookingEquipmentResponse `json:"equipment,omitempty"`
	BasePrice  float64                    `json:"base_price"`
	TotalPrice float64                    `json:"total_price"`
	Breakdown  []entity.PriceLine         `json:"breakdown"`
	Status     entity.BookingStatus       `json:"status"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// SlotOffer echoes a requested slot back to the caller, typically as a
// waitlist suggestion attached to a conflict response.
type SlotOffer struct {
	CourtID   string `json:"court_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	JoinURL   string `json:"join_url"`
}

type BookingConflictResponse struct {
	Reason        string     `json:"reason"`
	WaitlistOffer *SlotOffer `json:"waitlist_offer,omitempty"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         booking.ID.String(),
		UserID:     booking.UserID.String(),
		CourtID:    booking.CourtID.String(),
		Date:       booking.Date.Format("2006-01-02"),
		StartTime:  utils.FormatClock(booking.StartMinute),
		EndTime:    utils.FormatClock(booking.EndMinute),
		BasePrice:  booking.BasePrice,
		TotalPrice: booking.TotalPrice,
		Breakdown:  booking.PriceBreakdown,
		Status:     booking.Status,
		CreatedAt:  booking.CreatedAt,
	}

	if booking.CoachID != nil {
		coachID := booking.CoachID.String()
		resp.CoachID = &coachID
	}

	for _, item := range booking.Equipment {
		resp.Equipment = append(resp.Equipment, BookingEquipmentResponse{
			EquipmentID: item.EquipmentID.String(),
			Quantity:    item.Quantity,
		})
	}

	return resp
}
