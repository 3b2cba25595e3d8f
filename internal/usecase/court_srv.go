package usecase

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bookable hours run 06:00 to 22:00 in whole-hour slots.
const (
	openMinute  = 6 * 60
	closeMinute = 22 * 60
)

type CourtService interface {
	ListCourts(ctx context.Context) ([]response.CourtResponse, error)
	ListEquipment(ctx context.Context) ([]response.EquipmentResponse, error)
	ListCoaches(ctx context.Context) ([]response.CoachResponse, error)

	// Availability reports what remains bookable for the slot: free courts,
	// remaining equipment stock, coaches scheduled and not already booked.
	Availability(ctx context.Context, date, startTime, endTime string) (*response.AvailabilityResponse, error)

	// TimeSlots lists the bookable hourly slots of a day.
	TimeSlots(ctx context.Context, date string) ([]response.TimeSlotResponse, error)
}

type courtService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCourtService(repo *repository.Repository, log *zap.Logger) CourtService {
	return &courtService{
		repo: repo,
		log:  log.With(zap.String("service", "court")),
	}
}

func (s *courtService) ListCourts(ctx context.Context) ([]response.CourtResponse, error) {
	courts, err := s.repo.Court.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.CourtResponse, 0, len(courts))
	for _, court := range courts {
		items = append(items, response.CourtToResponse(court))
	}
	return items, nil
}

func (s *courtService) ListEquipment(ctx context.Context) ([]response.EquipmentResponse, error) {
	equipment, err := s.repo.Equipment.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.EquipmentResponse, 0, len(equipment))
	for _, item := range equipment {
		items = append(items, response.EquipmentToResponse(item))
	}
	return items, nil
}

func (s *courtService) ListCoaches(ctx context.Context) ([]response.CoachResponse, error) {
	coaches, err := s.repo.Coach.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.CoachResponse, 0, len(coaches))
	for _, coach := range coaches {
		windows, err := s.repo.Coach.FindAvailability(ctx, coach.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, response.CoachToResponse(coach, windows))
	}
	return items, nil
}

func (s *courtService) Availability(ctx context.Context, date, startTime, endTime string) (*response.AvailabilityResponse, error) {
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

	resp := &response.AvailabilityResponse{
		Date:      day.Format("2006-01-02"),
		StartTime: utils.FormatClock(start),
		EndTime:   utils.FormatClock(end),
		Courts:    []response.CourtResponse{},
		Equipment: []response.EquipmentAvailabilityResponse{},
		Coaches:   []response.CoachResponse{},
	}

	courts, err := s.repo.Court.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	bookedIDs, err := s.repo.Booking.FindBookedCourtIDs(ctx, day, start, end)
	if err != nil {
		return nil, err
	}
	booked := make(map[uuid.UUID]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}
	for _, court := range courts {
		if !booked[court.ID] {
			resp.Courts = append(resp.Courts, response.CourtToResponse(court))
		}
	}

	equipment, err := s.repo.Equipment.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range equipment {
		taken, err := s.repo.Equipment.BookedQuantity(ctx, item.ID, day, start, end)
		if err != nil {
			return nil, err
		}
		available := item.TotalQuantity - taken
		if available < 0 {
			available = 0
		}
		resp.Equipment = append(resp.Equipment, response.EquipmentAvailabilityResponse{
			EquipmentResponse: response.EquipmentToResponse(item),
			AvailableQuantity: available,
		})
	}

	slot := entity.SlotKey{Date: day, StartMinute: start, EndMinute: end}
	windows, err := s.repo.Coach.FindAvailabilityForDay(ctx, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	for _, window := range windows {
		if seen[window.CoachID] || !window.Covers(slot) {
			continue
		}
		seen[window.CoachID] = true

		coach, err := s.repo.Coach.FindByID(ctx, window.CoachID)
		if err != nil {
			return nil, err
		}
		if coach == nil || !coach.IsActive {
			continue
		}

		taken, err := s.repo.Booking.CoachIsBooked(ctx, coach.ID, day, start, end)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		resp.Coaches = append(resp.Coaches, response.CoachToResponse(coach, nil))
	}

	return resp, nil
}

func (s *courtService) TimeSlots(ctx context.Context, date string) ([]response.TimeSlotResponse, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", date, ErrInvalidInput)
	}

	slots := make([]response.TimeSlotResponse, 0, (closeMinute-openMinute)/60)
	for minute := openMinute; minute < closeMinute; minute += 60 {
		slots = append(slots, response.TimeSlotResponse{
			StartTime: utils.FormatClock(minute),
			EndTime:   utils.FormatClock(minute + 60),
		})
	}
	return slots, nil
}
