package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type WaitlistEntryResponse struct {
	ID         string                `json:"id"`
	CourtID    string                `json:"court_id"`
	Date       string                `json:"date"`
	StartTime  string                `json:"start_time"`
	EndTime    string                `json:"end_time"`
	Status     entity.WaitlistStatus `json:"status"`
	Position   int                   `json:"position,omitempty"`
	NotifiedAt *time.Time            `json:"notified_at,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// Helper converters
func WaitlistEntryToResponse(entry *entity.WaitlistEntry, position int) WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:         entry.ID.String(),
		CourtID:    entry.CourtID.String(),
		Date:       entry.Date.Format("2006-01-02"),
		StartTime:  utils.FormatClock(entry.StartMinute),
		EndTime:    utils.FormatClock(entry.EndMinute),
		Status:     entry.Status,
		Position:   position,
		NotifiedAt: entry.NotifiedAt,
		CreatedAt:  entry.CreatedAt,
	}
}
