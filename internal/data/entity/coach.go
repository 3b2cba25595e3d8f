package entity

import "github.com/google/uuid"

type Coach struct {
	Base
	Name      string  `db:"name"`
	HourlyFee float64 `db:"hourly_fee"`
	IsActive  bool    `db:"is_active"`
}

// CoachAvailability is a weekly recurring window during which a coach may be
// booked. DayOfWeek follows time.Weekday numbering (0 = Sunday).
type CoachAvailability struct {
	BaseSimple
	CoachID     uuid.UUID `db:"coach_id"`
	DayOfWeek   int       `db:"day_of_week"`
	StartMinute int       `db:"start_minute"`
	EndMinute   int       `db:"end_minute"`
}

// Covers reports whether the window fully contains the slot's time range.
func (a CoachAvailability) Covers(slot SlotKey) bool {
	if int(slot.Date.Weekday()) != a.DayOfWeek {
		return false
	}
	return a.StartMinute <= slot.StartMinute && a.EndMinute >= slot.EndMinute
}
