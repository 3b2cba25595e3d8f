package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotKey identifies a unique bookable court-time unit. It is the join key
// between the booking ledger and the waitlist. Times are minutes since
// midnight; Date carries the calendar day only.
type SlotKey struct {
	CourtID     uuid.UUID
	Date        time.Time
	StartMinute int
	EndMinute   int
}

func NewSlotKey(courtID uuid.UUID, date time.Time, startMinute, endMinute int) SlotKey {
	return SlotKey{
		CourtID:     courtID,
		Date:        date.Truncate(24 * time.Hour),
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
}

// Overlaps reports whether two slots on the same court and day share any time.
func (k SlotKey) Overlaps(other SlotKey) bool {
	if k.CourtID != other.CourtID || !k.Date.Equal(other.Date) {
		return false
	}
	return k.StartMinute < other.EndMinute && k.EndMinute > other.StartMinute
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s %02d:%02d-%02d:%02d",
		k.CourtID.String(),
		k.Date.Format("2006-01-02"),
		k.StartMinute/60, k.StartMinute%60,
		k.EndMinute/60, k.EndMinute%60,
	)
}
