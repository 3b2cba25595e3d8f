package entity

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistStatus string

const (
	WaitlistStatusWaiting  WaitlistStatus = "WAITING"
	WaitlistStatusNotified WaitlistStatus = "NOTIFIED"
	WaitlistStatusExpired  WaitlistStatus = "EXPIRED"
)

// WaitlistEntry is a requester queued for a taken slot. Entries for a slot
// form a FIFO by (created_at, seq); seq is a monotonic insertion counter
// assigned by the store to break created_at ties.
type WaitlistEntry struct {
	BaseSimple
	Seq         int64          `db:"seq"`
	UserID      uuid.UUID      `db:"user_id"`
	CourtID     uuid.UUID      `db:"court_id"`
	Date        time.Time      `db:"date"`
	StartMinute int            `db:"start_minute"`
	EndMinute   int            `db:"end_minute"`
	Status      WaitlistStatus `db:"status"`
	NotifiedAt  *time.Time     `db:"notified_at"`
}

func (e *WaitlistEntry) Slot() SlotKey {
	return SlotKey{
		CourtID:     e.CourtID,
		Date:        e.Date,
		StartMinute: e.StartMinute,
		EndMinute:   e.EndMinute,
	}
}
