package response

import (
	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type CourtResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CourtType entity.CourtType `json:"court_type"`
	IsActive  bool             `json:"is_active"`
}

type EquipmentResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	EquipmentType entity.EquipmentType `json:"equipment_type"`
	TotalQuantity int                  `json:"total_quantity"`
}

type CoachResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	HourlyFee    float64                     `json:"hourly_fee"`
	Availability []CoachAvailabilityResponse `json:"availability,omitempty"`
}

type CoachAvailabilityResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type EquipmentAvailabilityResponse struct {
	EquipmentResponse
	AvailableQuantity int `json:"available_quantity"`
}

// AvailabilityResponse answers "what can I book for this slot": the free
// courts, remaining equipment stock, and coaches both scheduled and unbooked.
type AvailabilityResponse struct {
	Date      string                          `json:"date"`
	StartTime string                          `json:"start_time"`
	EndTime   string                          `json:"end_time"`
	Courts    []CourtResponse                 `json:"courts"`
	Equipment []EquipmentAvailabilityResponse `json:"equipment"`
	Coaches   []CoachResponse                 `json:"coaches"`
}

type TimeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Helper converters
func CourtToResponse(court *entity.Court) CourtResponse {
	return CourtResponse{
		ID:        court.ID.String(),
		Name:      court.Name,
		CourtType: court.CourtType,
		IsActive:  court.IsActive,
	}
}

func EquipmentToResponse(equipment *entity.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:            equipment.ID.String(),
		Name:          equipment.Name,
		EquipmentType: equipment.EquipmentType,
		TotalQuantity: equipment.TotalQuantity,
	}
}

func CoachToResponse(coach *entity.Coach, availability []*entity.CoachAvailability) CoachResponse {
	resp := CoachResponse{
		ID:        coach.ID.String(),
		Name:      coach.Name,
		HourlyFee: coach.HourlyFee,
	}

	for _, window := range availability {
		resp.Availability = append(resp.Availability, CoachAvailabilityResponse{
			DayOfWeek: window.DayOfWeek,
			StartTime: utils.FormatClock(window.StartMinute),
			EndTime:   utils.FormatClock(window.EndMinute),
		})
	}

	return resp
}
