package usecase

import (
	"context"
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationArbiter serializes competing reservation attempts on a court.
// The availability check and the booking insert run inside one court-scoped
// lock, so of N concurrent attempts on a slot exactly one commits and the
// rest observe ErrSlotTaken; no committed state ever holds two CONFIRMED
// bookings for the same slot, or a passed check without its booking.
type ReservationArbiter interface {
	// TryReserve commits the already-priced booking if the slot is free.
	// equipmentTotals carries the stock for each requested equipment type so
	// quantities can be re-checked under the lock.
	TryReserve(ctx context.Context, booking *entity.Booking, equipmentTotals map[uuid.UUID]int) error

	// Cancel marks the booking CANCELLED and, before releasing the court
	// lock, promotes the head of the slot's waitlist so no new racer can
	// take the slot ahead of the promoted waitlister. Returns the cancelled
	// booking and the promoted entry, if any.
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, asAdmin bool) (*entity.Booking, *entity.WaitlistEntry, error)
}

// waitlistPromoter is the slice of the waitlist manager the arbiter drives
// while still holding the court lock.
type waitlistPromoter interface {
	PromoteNextTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error)
}

type reservationArbiter struct {
	tx       database.TxManager
	repo     *repository.Repository
	promoter waitlistPromoter
	log      *zap.Logger
}

func NewReservationArbiter(tx database.TxManager, repo *repository.Repository, promoter waitlistPromoter, log *zap.Logger) ReservationArbiter {
	return &reservationArbiter{
		tx:       tx,
		repo:     repo,
		promoter: promoter,
		log:      log.With(zap.String("service", "arbiter")),
	}
}

func (a *reservationArbiter) TryReserve(ctx context.Context, booking *entity.Booking, equipmentTotals map[uuid.UUID]int) error {
	slot := booking.Slot()

	err := a.tx.WithinCourtLock(ctx, booking.CourtID, func(ctx context.Context, q database.Querier) error {
		// Re-read ledger state under the lock; anything observed before
		// acquisition may be stale.
		overlaps, err := a.repo.Booking.FindConfirmedOverlapTx(ctx, q, booking.CourtID, booking.Date, booking.StartMinute, booking.EndMinute)
		if err != nil {
			return err
		}
		for _, existing := range overlaps {
			if existing.UserID == booking.UserID {
				return ErrSelfOverlap
			}
		}
		if len(overlaps) > 0 {
			return ErrSlotTaken
		}

		for _, item := range booking.Equipment {
			booked, err := a.repo.Equipment.BookedQuantityTx(ctx, q, item.EquipmentID, booking.Date, booking.StartMinute, booking.EndMinute)
			if err != nil {
				return err
			}
			if equipmentTotals[item.EquipmentID]-booked < item.Quantity {
				return fmt.Errorf("equipment %s: %w", item.EquipmentID.String(), ErrEquipmentUnavailable)
			}
		}

		if booking.CoachID != nil {
			booked, err := a.repo.Booking.CoachIsBookedTx(ctx, q, *booking.CoachID, booking.Date, booking.StartMinute, booking.EndMinute)
			if err != nil {
				return err
			}
			if booked {
				return ErrCoachUnavailable
			}
		}

		return a.repo.Booking.CreateTx(ctx, q, booking)
	})

	if err != nil {
		if errors.Is(err, database.ErrCourtNotFound) {
			return fmt.Errorf("court %s: %w", booking.CourtID.String(), ErrNotFound)
		}
		return err
	}

	a.log.Info("Reservation committed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", booking.UserID.String()),
		zap.String("slot", slot.String()),
		zap.Float64("total_price", booking.TotalPrice),
	)
	return nil
}

func (a *reservationArbiter) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, asAdmin bool) (*entity.Booking, *entity.WaitlistEntry, error) {
	booking, err := a.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if !asAdmin && booking.UserID != requesterID {
		return nil, nil, ErrForbidden
	}

	var promoted *entity.WaitlistEntry
	err = a.tx.WithinCourtLock(ctx, booking.CourtID, func(ctx context.Context, q database.Querier) error {
		current, err := a.repo.Booking.FindByIDTx(ctx, q, bookingID)
		if err != nil {
			return err
		}
		if current == nil || current.Status != entity.BookingStatusConfirmed {
			return fmt.Errorf("booking %s not confirmed: %w", bookingID.String(), ErrNotFound)
		}

		if err := a.repo.Booking.UpdateStatusTx(ctx, q, bookingID, entity.BookingStatusCancelled); err != nil {
			return err
		}
		booking.Status = entity.BookingStatusCancelled

		// Promotion happens inside the same lock as the cancellation so a
		// new racer cannot reserve the vacated slot ahead of the promoted
		// waitlister.
		promoted, err = a.promoter.PromoteNextTx(ctx, q, booking.Slot())
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	a.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.Bool("promoted", promoted != nil),
	)
	return booking, promoted, nil
}
