package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public endpoints (auth required)
	ConfirmBooking(ctx context.Context, userID string, req *request.ConfirmBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID string, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Pricing preview (public)
	CalculatePrice(ctx context.Context, req *request.CalculatePriceRequest) (*response.PriceQuoteResponse, error)

	// Admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	AdminCancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo       *repository.Repository
	arbiter    ReservationArbiter
	basePrice  float64
	windowDays int
	now        func() time.Time
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, arbiter ReservationArbiter, basePrice float64, windowDays int, log *zap.Logger) BookingService {
	return &bookingService{
		repo:       repo,
		arbiter:    arbiter,
		basePrice:  basePrice,
		windowDays: windowDays,
		now:        time.Now,
		log:        log.With(zap.String("service", "booking")),
	}
}

// bookingInputs is the fully resolved, validated form of a booking or quote
// request: catalog rows loaded, times parsed, pricing context assembled.
type bookingInputs struct {
	court           *entity.Court
	slot            entity.SlotKey
	coach           *entity.Coach
	equipment       []entity.BookingEquipment
	equipmentTotals map[uuid.UUID]int
	pctx            PriceContext
}

func (s *bookingService) resolveInputs(ctx context.Context, courtID, date, startTime, endTime string, items []request.BookingEquipmentItem, coachID *string) (*bookingInputs, error) {
	courtUUID, err := uuid.Parse(courtID)
	if err != nil {
		return nil, fmt.Errorf("invalid court ID format %s: %w", courtID, ErrInvalidInput)
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", date, ErrInvalidInput)
	}

	start, err := utils.ParseClock(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %s: %w", startTime, ErrInvalidInput)
	}
	end, err := utils.ParseClock(endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %s: %w", endTime, ErrInvalidInput)
	}
	if start >= end {
		return nil, fmt.Errorf("start time must precede end time: %w", ErrInvalidInput)
	}

	court, err := s.repo.Court.FindByID(ctx, courtUUID)
	if err != nil {
		return nil, err
	}
	if court == nil || !court.IsActive {
		return nil, fmt.Errorf("court %s: %w", courtID, ErrNotFound)
	}

	in := &bookingInputs{
		court:           court,
		slot:            entity.NewSlotKey(courtUUID, day, start, end),
		equipmentTotals: make(map[uuid.UUID]int),
	}

	totalQuantity := 0
	for _, item := range items {
		equipmentUUID, err := uuid.Parse(item.EquipmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid equipment ID format %s: %w", item.EquipmentID, ErrInvalidInput)
		}
		if _, seen := in.equipmentTotals[equipmentUUID]; seen {
			return nil, fmt.Errorf("duplicate equipment %s: %w", item.EquipmentID, ErrInvalidInput)
		}

		equipment, err := s.repo.Equipment.FindByID(ctx, equipmentUUID)
		if err != nil {
			return nil, err
		}
		if equipment == nil {
			return nil, fmt.Errorf("equipment %s: %w", item.EquipmentID, ErrNotFound)
		}
		if item.Quantity > equipment.TotalQuantity {
			return nil, fmt.Errorf("equipment %s: %w", equipment.Name, ErrEquipmentUnavailable)
		}

		in.equipmentTotals[equipmentUUID] = equipment.TotalQuantity
		in.equipment = append(in.equipment, entity.BookingEquipment{
			EquipmentID: equipmentUUID,
			Quantity:    item.Quantity,
		})
		totalQuantity += item.Quantity
	}

	in.pctx = PriceContext{
		Date:              day,
		StartMinute:       start,
		EndMinute:         end,
		Indoor:            court.CourtType == entity.CourtTypeIndoor,
		EquipmentQuantity: totalQuantity,
	}

	if coachID != nil {
		coachUUID, err := uuid.Parse(*coachID)
		if err != nil {
			return nil, fmt.Errorf("invalid coach ID format %s: %w", *coachID, ErrInvalidInput)
		}

		coach, err := s.repo.Coach.FindByID(ctx, coachUUID)
		if err != nil {
			return nil, err
		}
		if coach == nil || !coach.IsActive {
			return nil, fmt.Errorf("coach %s: %w", *coachID, ErrNotFound)
		}

		windows, err := s.repo.Coach.FindAvailability(ctx, coachUUID)
		if err != nil {
			return nil, err
		}
		covered := false
		for _, window := range windows {
			if window.Covers(in.slot) {
				covered = true
				break
			}
		}
		if !covered {
			return nil, fmt.Errorf("coach %s has no availability for the slot: %w", coach.Name, ErrCoachUnavailable)
		}

		in.coach = coach
		in.pctx.CoachFee = &coach.HourlyFee
	}

	return in, nil
}

// checkWindow enforces the rolling booking horizon: the slot must not have
// started yet and must lie within windowDays of today.
func (s *bookingService) checkWindow(slot entity.SlotKey) error {
	now := s.now()
	slotStart := time.Date(slot.Date.Year(), slot.Date.Month(), slot.Date.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(slot.StartMinute) * time.Minute)
	if slotStart.Before(time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, time.UTC)) {
		return fmt.Errorf("slot already started: %w", ErrOutsideWindow)
	}

	horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, s.windowDays)
	if slot.Date.After(horizon) {
		return fmt.Errorf("date beyond %d day window: %w", s.windowDays, ErrOutsideWindow)
	}

	return nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, userID string, req *request.ConfirmBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, ErrInvalidInput)
	}

	in, err := s.resolveInputs(ctx, req.CourtID, req.Date, req.StartTime, req.EndTime, req.Equipment, req.CoachID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWindow(in.slot); err != nil {
		return nil, err
	}

	rules, err := s.repo.PricingRule.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := ComputePrice(s.basePrice, in.pctx, rules)

	booking := &entity.Booking{
		UserID:         userUUID,
		CourtID:        in.slot.CourtID,
		Date:           in.slot.Date,
		StartMinute:    in.slot.StartMinute,
		EndMinute:      in.slot.EndMinute,
		BasePrice:      breakdown.BasePrice,
		TotalPrice:     breakdown.TotalPrice,
		PriceBreakdown: breakdown.Lines,
		Status:         entity.BookingStatusConfirmed,
		Equipment:      in.equipment,
	}
	booking.ID = uuid.New()
	booking.CreatedAt = s.now()
	booking.UpdatedAt = booking.CreatedAt
	if in.coach != nil {
		coachID := in.coach.ID
		booking.CoachID = &coachID
	}
	for i := range booking.Equipment {
		booking.Equipment[i].ID = uuid.New()
		booking.Equipment[i].BookingID = booking.ID
		booking.Equipment[i].CreatedAt = booking.CreatedAt
	}

	if err := s.arbiter.TryReserve(ctx, booking, in.equipmentTotals); err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	resp.CourtName = in.court.Name
	if in.coach != nil {
		resp.CoachName = in.coach.Name
	}
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, bookingID string) (*response.BookingResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, ErrInvalidInput)
	}
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, promoted, err := s.arbiter.Cancel(ctx, bookingUUID, userUUID, false)
	if err != nil {
		return nil, err
	}
	if promoted != nil {
		s.log.Info("Waitlisted user notified after cancellation",
			zap.String("booking_id", bookingID),
			zap.String("notified_user_id", promoted.UserID.String()),
		)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AdminCancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, _, err := s.arbiter.Cancel(ctx, bookingUUID, uuid.Nil, true)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, ErrInvalidInput)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		lines, err := s.repo.Booking.FindEquipmentByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			booking.Equipment = append(booking.Equipment, *line)
		}
		items = append(items, response.BookingToResponse(booking))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) CalculatePrice(ctx context.Context, req *request.CalculatePriceRequest) (*response.PriceQuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	in, err := s.resolveInputs(ctx, req.CourtID, req.Date, req.StartTime, req.EndTime, req.Equipment, req.CoachID)
	if err != nil {
		return nil, err
	}

	rules, err := s.repo.PricingRule.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := ComputePrice(s.basePrice, in.pctx, rules)

	return &response.PriceQuoteResponse{
		BasePrice:  breakdown.BasePrice,
		TotalPrice: breakdown.TotalPrice,
		Breakdown:  breakdown.Lines,
	}, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	lines, err := s.repo.Booking.FindEquipmentByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		booking.Equipment = append(booking.Equipment, *line)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}
