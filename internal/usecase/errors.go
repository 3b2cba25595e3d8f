package usecase

import "errors"

// Typed failures surfaced to the handler layer. Conflict-class errors carry
// an actionable alternative (join the waitlist); misuse-class errors map to
// 4xx responses and are never retried.
var (
	// ErrSlotTaken means another requester holds a CONFIRMED booking
	// overlapping the slot. The caller is offered the waitlist.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrSelfOverlap means the requester already holds a CONFIRMED booking
	// overlapping the slot on the same court.
	ErrSelfOverlap = errors.New("requester already holds an overlapping booking")

	ErrOutsideWindow        = errors.New("slot outside the booking window")
	ErrEquipmentUnavailable = errors.New("insufficient equipment available")
	ErrCoachUnavailable     = errors.New("coach not available for this slot")

	// ErrAlreadyQueued means the requester has a live (WAITING or NOTIFIED)
	// waitlist entry for the slot.
	ErrAlreadyQueued = errors.New("already queued for this slot")

	// ErrSlotNotContested means a waitlist join was attempted for a slot
	// nobody holds; joining an available slot is meaningless.
	ErrSlotNotContested = errors.New("slot is not currently booked")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRule marks a malformed pricing rule, rejected at
	// configuration time so computation never sees one.
	ErrInvalidRule = errors.New("invalid pricing rule")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
)
