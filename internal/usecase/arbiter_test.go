package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type arbiterFixture struct {
	store    *memStore
	repo     *repository.Repository
	tx       database.TxManager
	waitlist WaitlistService
	arbiter  ReservationArbiter
	courtID  uuid.UUID
}

func newArbiterFixture(t *testing.T) *arbiterFixture {
	t.Helper()

	store := newMemStore()
	repo := newMemRepository(store)
	tx := newMemTxManager(store)

	court := &entity.Court{Name: "Court 1", CourtType: entity.CourtTypeIndoor, IsActive: true}
	court.ID = uuid.New()
	store.courts[court.ID] = court

	waitlist := NewWaitlistService(tx, repo, 24*time.Hour, zap.NewNop())
	arbiter := NewReservationArbiter(tx, repo, waitlist, zap.NewNop())

	return &arbiterFixture{
		store:    store,
		repo:     repo,
		tx:       tx,
		waitlist: waitlist,
		arbiter:  arbiter,
		courtID:  court.ID,
	}
}

func makeBooking(courtID, userID uuid.UUID, date time.Time, start, end int) *entity.Booking {
	booking := &entity.Booking{
		UserID:      userID,
		CourtID:     courtID,
		Date:        date,
		StartMinute: start,
		EndMinute:   end,
		BasePrice:   500,
		TotalPrice:  500,
		Status:      entity.BookingStatusConfirmed,
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	return booking
}

// Twenty goroutines race for the same slot; exactly one booking commits and
// every loser observes the slot as taken.
func TestTryReserve_ConcurrentRacersOneWinner(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	const racers = 20
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			booking := makeBooking(f.courtID, uuid.New(), date, 600, 660)
			errs[i] = f.arbiter.TryReserve(context.Background(), booking, nil)
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("got %d successful reservations, want exactly 1", wins)
	}
	if losses != racers-1 {
		t.Fatalf("got %d ErrSlotTaken, want %d", losses, racers-1)
	}

	confirmed := 0
	for _, booking := range f.store.bookings {
		if booking.Status == entity.BookingStatusConfirmed {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Fatalf("store holds %d confirmed bookings, want 1", confirmed)
	}
}

func TestTryReserve_SelfOverlapRejected(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	if err := f.arbiter.TryReserve(context.Background(), makeBooking(f.courtID, userID, date, 600, 720), nil); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	err := f.arbiter.TryReserve(context.Background(), makeBooking(f.courtID, userID, date, 660, 780), nil)
	if !errors.Is(err, ErrSelfOverlap) {
		t.Fatalf("err = %v, want ErrSelfOverlap", err)
	}
}

func TestTryReserve_AdjacentSlotsBothSucceed(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	if err := f.arbiter.TryReserve(context.Background(), makeBooking(f.courtID, uuid.New(), date, 600, 660), nil); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if err := f.arbiter.TryReserve(context.Background(), makeBooking(f.courtID, uuid.New(), date, 660, 720), nil); err != nil {
		t.Fatalf("back-to-back reservation failed: %v", err)
	}
}

func TestTryReserve_EquipmentRecheckUnderLock(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	racket := &entity.Equipment{Name: "Racket", EquipmentType: entity.EquipmentTypeRacket, TotalQuantity: 4}
	racket.ID = uuid.New()
	f.store.equipment[racket.ID] = racket
	totals := map[uuid.UUID]int{racket.ID: racket.TotalQuantity}

	// A second court so the holds overlap in time, not on the court.
	other := &entity.Court{Name: "Court 2", CourtType: entity.CourtTypeOutdoor, IsActive: true}
	other.ID = uuid.New()
	f.store.courts[other.ID] = other

	first := makeBooking(f.courtID, uuid.New(), date, 600, 660)
	first.Equipment = []entity.BookingEquipment{{EquipmentID: racket.ID, Quantity: 3}}
	if err := f.arbiter.TryReserve(context.Background(), first, totals); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	second := makeBooking(other.ID, uuid.New(), date, 600, 660)
	second.Equipment = []entity.BookingEquipment{{EquipmentID: racket.ID, Quantity: 2}}
	err := f.arbiter.TryReserve(context.Background(), second, totals)
	if !errors.Is(err, ErrEquipmentUnavailable) {
		t.Fatalf("err = %v, want ErrEquipmentUnavailable", err)
	}

	second.Equipment[0].Quantity = 1
	if err := f.arbiter.TryReserve(context.Background(), second, totals); err != nil {
		t.Fatalf("reservation within remaining stock failed: %v", err)
	}
}

func TestTryReserve_CoachDoubleBookingRejected(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	coach := &entity.Coach{Name: "Rajesh", HourlyFee: 800, IsActive: true}
	coach.ID = uuid.New()
	f.store.coaches[coach.ID] = coach

	other := &entity.Court{Name: "Court 2", CourtType: entity.CourtTypeOutdoor, IsActive: true}
	other.ID = uuid.New()
	f.store.courts[other.ID] = other

	first := makeBooking(f.courtID, uuid.New(), date, 600, 660)
	coachID := coach.ID
	first.CoachID = &coachID
	if err := f.arbiter.TryReserve(context.Background(), first, nil); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	second := makeBooking(other.ID, uuid.New(), date, 630, 690)
	second.CoachID = &coachID
	err := f.arbiter.TryReserve(context.Background(), second, nil)
	if !errors.Is(err, ErrCoachUnavailable) {
		t.Fatalf("err = %v, want ErrCoachUnavailable", err)
	}
}

func TestTryReserve_UnknownCourt(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	booking := makeBooking(uuid.New(), uuid.New(), date, 600, 660)
	err := f.arbiter.TryReserve(context.Background(), booking, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCancel_OwnershipAndStatus(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	owner := uuid.New()

	booking := makeBooking(f.courtID, owner, date, 600, 660)
	if err := f.arbiter.TryReserve(context.Background(), booking, nil); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if _, _, err := f.arbiter.Cancel(context.Background(), booking.ID, uuid.New(), false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden for non-owner", err)
	}

	cancelled, promoted, err := f.arbiter.Cancel(context.Background(), booking.ID, owner, false)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entity.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
	if promoted != nil {
		t.Fatalf("promoted = %v, want nil with empty waitlist", promoted)
	}

	// Cancelling twice finds no CONFIRMED booking.
	if _, _, err := f.arbiter.Cancel(context.Background(), booking.ID, owner, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound on second cancel", err)
	}
}

// Cancellation promotes the queue head inside the same lock, so the slot is
// immediately re-bookable only through the promoted entry's claim.
func TestCancel_PromotesQueueHead(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	owner := uuid.New()

	booking := makeBooking(f.courtID, owner, date, 600, 660)
	if err := f.arbiter.TryReserve(context.Background(), booking, nil); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	slot := booking.Slot()
	firstWaiter := uuid.New()
	if _, _, err := f.waitlist.Join(context.Background(), firstWaiter, slot); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if _, _, err := f.waitlist.Join(context.Background(), uuid.New(), slot); err != nil {
		t.Fatalf("second join failed: %v", err)
	}

	_, promoted, err := f.arbiter.Cancel(context.Background(), booking.ID, owner, false)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if promoted == nil {
		t.Fatal("promoted = nil, want queue head")
	}
	if promoted.UserID != firstWaiter {
		t.Fatalf("promoted user = %s, want first joiner %s", promoted.UserID, firstWaiter)
	}
	if promoted.Status != entity.WaitlistStatusNotified {
		t.Fatalf("promoted status = %s, want NOTIFIED", promoted.Status)
	}
	if promoted.NotifiedAt == nil {
		t.Fatal("promoted NotifiedAt not stamped")
	}
}

func TestCancel_AdminOverridesOwnership(t *testing.T) {
	f := newArbiterFixture(t)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	booking := makeBooking(f.courtID, uuid.New(), date, 600, 660)
	if err := f.arbiter.TryReserve(context.Background(), booking, nil); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	cancelled, _, err := f.arbiter.Cancel(context.Background(), booking.ID, uuid.Nil, true)
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if cancelled.Status != entity.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
}
