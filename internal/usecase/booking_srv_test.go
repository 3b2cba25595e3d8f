package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookingFixture struct {
	*arbiterFixture
	clock   *mockClock
	service BookingService
	racket  *entity.Equipment
	coach   *entity.Coach
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := newArbiterFixture(t)
	clock := newMockClock()
	f.waitlist.(*waitlistService).now = clock.Now

	racket := &entity.Equipment{Name: "Racket", EquipmentType: entity.EquipmentTypeRacket, TotalQuantity: 4}
	racket.ID = uuid.New()
	f.store.equipment[racket.ID] = racket

	coach := &entity.Coach{Name: "Priya", HourlyFee: 800, IsActive: true}
	coach.ID = uuid.New()
	f.store.coaches[coach.ID] = coach
	// Wednesdays 09:00-20:00
	f.store.windows = append(f.store.windows, &entity.CoachAvailability{
		CoachID:     coach.ID,
		DayOfWeek:   3,
		StartMinute: 9 * 60,
		EndMinute:   20 * 60,
	})

	indoor := makeRule("6f3c2a1e-0001-4a00-8000-000000000001", "Indoor Premium", entity.RuleKindPercentage, entity.RuleCategoryIndoorPremium, 0.20, 1)
	f.store.rules[indoor.ID] = indoor

	service := NewBookingService(f.repo, f.arbiter, 500, 7, zap.NewNop())
	service.(*bookingService).now = clock.Now

	return &bookingFixture{
		arbiterFixture: f,
		clock:          clock,
		service:        service,
		racket:         racket,
		coach:          coach,
	}
}

func (f *bookingFixture) confirmReq() *request.ConfirmBookingRequest {
	return &request.ConfirmBookingRequest{
		CourtID:   f.courtID.String(),
		Date:      "2026-09-02",
		StartTime: "10:00",
		EndTime:   "11:00",
	}
}

func TestConfirmBooking_PricesAndPersists(t *testing.T) {
	f := newBookingFixture(t)
	userID := uuid.New().String()

	booking, err := f.service.ConfirmBooking(context.Background(), userID, f.confirmReq())
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if booking.Status != entity.BookingStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.TotalPrice != 600 {
		t.Fatalf("TotalPrice = %v, want 600 with the indoor premium", booking.TotalPrice)
	}
	if len(booking.Breakdown) != 1 || booking.Breakdown[0].RuleName != "Indoor Premium" {
		t.Fatalf("breakdown = %+v, want single Indoor Premium line", booking.Breakdown)
	}
	if booking.CourtName != "Court 1" {
		t.Fatalf("CourtName = %q, want Court 1", booking.CourtName)
	}

	stored := f.store.bookings[uuid.MustParse(booking.ID)]
	if stored == nil || stored.Status != entity.BookingStatusConfirmed {
		t.Fatal("booking not persisted as CONFIRMED")
	}
}

func TestConfirmBooking_SlotTaken(t *testing.T) {
	f := newBookingFixture(t)

	if _, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), f.confirmReq()); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	_, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), f.confirmReq())
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestConfirmBooking_WindowEnforced(t *testing.T) {
	f := newBookingFixture(t)
	userID := uuid.New().String()

	req := f.confirmReq()
	req.Date = "2026-09-15"
	if _, err := f.service.ConfirmBooking(context.Background(), userID, req); !errors.Is(err, ErrOutsideWindow) {
		t.Fatalf("err = %v, want ErrOutsideWindow beyond the horizon", err)
	}

	// Clock sits at 2026-09-01 12:00; a 10:00 slot that day already started.
	req = f.confirmReq()
	req.Date = "2026-09-01"
	if _, err := f.service.ConfirmBooking(context.Background(), userID, req); !errors.Is(err, ErrOutsideWindow) {
		t.Fatalf("err = %v, want ErrOutsideWindow for a started slot", err)
	}
}

func TestConfirmBooking_EquipmentStockPreCheck(t *testing.T) {
	f := newBookingFixture(t)

	req := f.confirmReq()
	req.Equipment = []request.BookingEquipmentItem{
		{EquipmentID: f.racket.ID.String(), Quantity: 5},
	}
	_, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), req)
	if !errors.Is(err, ErrEquipmentUnavailable) {
		t.Fatalf("err = %v, want ErrEquipmentUnavailable over total stock", err)
	}
}

func TestConfirmBooking_CoachScheduleChecked(t *testing.T) {
	f := newBookingFixture(t)
	coachID := f.coach.ID.String()

	// 2026-09-02 is a Wednesday inside the coach's window.
	req := f.confirmReq()
	req.CoachID = &coachID
	booking, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), req)
	if err != nil {
		t.Fatalf("confirm with coach failed: %v", err)
	}
	// 500 * 1.20 indoor, then the coach's hourly fee would need a COACH_FEE
	// rule; without one only the premium applies.
	if booking.TotalPrice != 600 {
		t.Fatalf("TotalPrice = %v, want 600", booking.TotalPrice)
	}

	// 2026-09-03 is a Thursday, outside every window.
	req = f.confirmReq()
	req.Date = "2026-09-03"
	req.CoachID = &coachID
	if _, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), req); !errors.Is(err, ErrCoachUnavailable) {
		t.Fatalf("err = %v, want ErrCoachUnavailable off schedule", err)
	}
}

func TestCalculatePrice_MatchesBooking(t *testing.T) {
	f := newBookingFixture(t)

	fee := makeRule("6f3c2a1e-0004-4a00-8000-000000000004", "Equipment Fee", entity.RuleKindFlat, entity.RuleCategoryEquipmentFee, 50, 4)
	f.store.rules[fee.ID] = fee

	quote, err := f.service.CalculatePrice(context.Background(), &request.CalculatePriceRequest{
		CourtID:   f.courtID.String(),
		Date:      "2026-09-02",
		StartTime: "10:00",
		EndTime:   "11:00",
		Equipment: []request.BookingEquipmentItem{
			{EquipmentID: f.racket.ID.String(), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	// 500 * 1.20 + 50*2 = 700
	if quote.TotalPrice != 700 {
		t.Fatalf("TotalPrice = %v, want 700", quote.TotalPrice)
	}
	if quote.BasePrice != 500 {
		t.Fatalf("BasePrice = %v, want 500", quote.BasePrice)
	}

	// A quote never writes: nothing booked yet.
	if len(f.store.bookings) != 0 {
		t.Fatalf("quote persisted %d bookings", len(f.store.bookings))
	}
}

func TestCancelBooking_ReturnsUpdatedBooking(t *testing.T) {
	f := newBookingFixture(t)
	userID := uuid.New().String()

	booking, err := f.service.ConfirmBooking(context.Background(), userID, f.confirmReq())
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	cancelled, err := f.service.CancelBooking(context.Background(), userID, booking.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entity.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}

	// The slot is free again.
	if _, err := f.service.ConfirmBooking(context.Background(), uuid.New().String(), f.confirmReq()); err != nil {
		t.Fatalf("rebooking freed slot failed: %v", err)
	}
}

func TestGetUserBookings_Paginated(t *testing.T) {
	f := newBookingFixture(t)
	userID := uuid.New().String()

	for hour := 10; hour < 13; hour++ {
		req := f.confirmReq()
		req.StartTime = formatHour(hour)
		req.EndTime = formatHour(hour + 1)
		if _, err := f.service.ConfirmBooking(context.Background(), userID, req); err != nil {
			t.Fatalf("confirm %d failed: %v", hour, err)
		}
		f.clock.Advance(time.Second)
	}

	page, err := f.service.GetUserBookings(context.Background(), userID, &request.PaginatedRequest{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("get bookings failed: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("got %d bookings, want 2", len(page.Data))
	}
	if page.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 2 {
		t.Fatalf("total pages = %d, want 2", page.Pagination.TotalPages)
	}
}

func formatHour(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04")
}
