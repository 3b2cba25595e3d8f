package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a confirmed court allocation. For any SlotKey at most one
// booking is CONFIRMED at a time; cancelled rows are kept for audit.
type Booking struct {
	Base
	UserID         uuid.UUID     `db:"user_id"`
	CourtID        uuid.UUID     `db:"court_id"`
	Date           time.Time     `db:"date"`
	StartMinute    int           `db:"start_minute"`
	EndMinute      int           `db:"end_minute"`
	CoachID        *uuid.UUID    `db:"coach_id"`
	BasePrice      float64       `db:"base_price"`
	TotalPrice     float64       `db:"total_price"`
	PriceBreakdown []PriceLine   `db:"price_breakdown"`
	Status         BookingStatus `db:"status"`
	Equipment      []BookingEquipment
}

func (b *Booking) Slot() SlotKey {
	return SlotKey{
		CourtID:     b.CourtID,
		Date:        b.Date,
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
	}
}

// BookingEquipment records a rented quantity of one equipment type on a booking.
type BookingEquipment struct {
	BaseSimple
	BookingID   uuid.UUID `db:"booking_id"`
	EquipmentID uuid.UUID `db:"equipment_id"`
	Quantity    int       `db:"quantity"`
}

// PriceLine is one applied pricing step, kept in application order so the
// total can be audited.
type PriceLine struct {
	RuleName      string       `json:"rule_name"`
	Kind          RuleKind     `json:"kind"`
	Category      RuleCategory `json:"category"`
	AmountApplied float64      `json:"amount_applied"`
	SubtotalAfter float64      `json:"subtotal_after"`
}
