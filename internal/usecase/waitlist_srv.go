package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WaitlistService manages the per-slot FIFO queues behind booked slots.
// Queue mutations that race with the reservation arbiter run inside the
// same court lock the arbiter uses.
type WaitlistService interface {
	// Join appends the user to the queue for a fully booked slot and returns
	// the new entry together with its 1-based position among WAITING entries.
	Join(ctx context.Context, userID uuid.UUID, slot entity.SlotKey) (*entity.WaitlistEntry, int, error)

	// Leave removes the caller's own entry regardless of status.
	Leave(ctx context.Context, entryID, userID uuid.UUID) error

	// GetUserEntries lists the user's WAITING and NOTIFIED entries with
	// current queue positions.
	GetUserEntries(ctx context.Context, userID uuid.UUID) ([]*entity.WaitlistEntry, []int, error)

	// PromoteNextTx moves the queue head from WAITING to NOTIFIED. The caller
	// must hold the court lock for the slot. Returns nil when the queue is
	// empty.
	PromoteNextTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error)

	// ExpireStale expires NOTIFIED entries whose window has lapsed as of now
	// and promotes the next waiter for each affected slot. Returns how many
	// entries were expired. Safe to run repeatedly.
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type waitlistService struct {
	tx           database.TxManager
	repo         *repository.Repository
	notifyExpiry time.Duration
	now          func() time.Time
	log          *zap.Logger
}

func NewWaitlistService(tx database.TxManager, repo *repository.Repository, notifyExpiry time.Duration, log *zap.Logger) WaitlistService {
	return &waitlistService{
		tx:           tx,
		repo:         repo,
		notifyExpiry: notifyExpiry,
		now:          time.Now,
		log:          log.With(zap.String("service", "waitlist")),
	}
}

func (s *waitlistService) Join(ctx context.Context, userID uuid.UUID, slot entity.SlotKey) (*entity.WaitlistEntry, int, error) {
	if slot.StartMinute >= slot.EndMinute {
		return nil, 0, fmt.Errorf("start must precede end: %w", ErrInvalidInput)
	}

	entry := &entity.WaitlistEntry{
		UserID:      userID,
		CourtID:     slot.CourtID,
		Date:        slot.Date,
		StartMinute: slot.StartMinute,
		EndMinute:   slot.EndMinute,
		Status:      entity.WaitlistStatusWaiting,
	}
	entry.ID = uuid.New()
	entry.CreatedAt = s.now()

	var position int
	err := s.tx.WithinCourtLock(ctx, slot.CourtID, func(ctx context.Context, q database.Querier) error {
		// Only contested slots accept waitlisters.
		overlaps, err := s.repo.Booking.FindConfirmedOverlapTx(ctx, q, slot.CourtID, slot.Date, slot.StartMinute, slot.EndMinute)
		if err != nil {
			return err
		}
		if len(overlaps) == 0 {
			return ErrSlotNotContested
		}

		existing, err := s.repo.Waitlist.FindLiveByUserAndSlotTx(ctx, q, userID, slot)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyQueued
		}

		if err := s.repo.Waitlist.CreateTx(ctx, q, entry); err != nil {
			return err
		}

		ahead, err := s.repo.Waitlist.CountWaitingAheadTx(ctx, q, entry)
		if err != nil {
			return err
		}
		position = ahead + 1
		return nil
	})
	if err != nil {
		if err == database.ErrCourtNotFound {
			return nil, 0, fmt.Errorf("court %s: %w", slot.CourtID.String(), ErrNotFound)
		}
		return nil, 0, err
	}

	s.log.Info("User joined waitlist",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("slot", slot.String()),
		zap.Int("position", position),
	)
	return entry, position, nil
}

func (s *waitlistService) Leave(ctx context.Context, entryID, userID uuid.UUID) error {
	entry, err := s.repo.Waitlist.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("waitlist entry %s: %w", entryID.String(), ErrNotFound)
	}
	if entry.UserID != userID {
		return ErrForbidden
	}

	err = s.tx.WithinCourtLock(ctx, entry.CourtID, func(ctx context.Context, q database.Querier) error {
		return s.repo.Waitlist.DeleteTx(ctx, q, entryID)
	})
	if err != nil {
		return err
	}

	s.log.Info("User left waitlist",
		zap.String("entry_id", entryID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *waitlistService) GetUserEntries(ctx context.Context, userID uuid.UUID) ([]*entity.WaitlistEntry, []int, error) {
	entries, err := s.repo.Waitlist.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	positions := make([]int, len(entries))
	for i, entry := range entries {
		if entry.Status != entity.WaitlistStatusWaiting {
			continue
		}
		ahead, err := s.repo.Waitlist.CountWaitingAhead(ctx, entry)
		if err != nil {
			return nil, nil, err
		}
		positions[i] = ahead + 1
	}
	return entries, positions, nil
}

func (s *waitlistService) PromoteNextTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error) {
	next, err := s.repo.Waitlist.FindNextWaitingTx(ctx, q, slot)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	notifiedAt := s.now()
	ok, err := s.repo.Waitlist.MarkNotifiedTx(ctx, q, next.ID, notifiedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Someone else already moved the head; nothing to promote.
		return nil, nil
	}
	next.Status = entity.WaitlistStatusNotified
	next.NotifiedAt = &notifiedAt

	// The notification itself is a head-of-queue signal surfaced to callers;
	// delivery channels sit outside this service.
	s.log.Info("Waitlist entry promoted",
		zap.String("entry_id", next.ID.String()),
		zap.String("user_id", next.UserID.String()),
		zap.String("slot", slot.String()),
	)
	return next, nil
}

func (s *waitlistService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.notifyExpiry)
	stale, err := s.repo.Waitlist.FindStaleNotified(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, entry := range stale {
		err := s.tx.WithinCourtLock(ctx, entry.CourtID, func(ctx context.Context, q database.Querier) error {
			// The status guard keeps concurrent or repeated sweeps from
			// double-expiring; only the sweep that wins promotes the next
			// waiter.
			ok, err := s.repo.Waitlist.MarkExpiredTx(ctx, q, entry.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			expired++

			_, err = s.PromoteNextTx(ctx, q, entry.Slot())
			return err
		})
		if err != nil {
			s.log.Error("Failed to expire waitlist entry",
				zap.Error(err),
				zap.String("entry_id", entry.ID.String()),
			)
			return expired, err
		}
	}

	if expired > 0 {
		s.log.Info("Expired stale waitlist notifications", zap.Int("count", expired))
	}
	return expired, nil
}
