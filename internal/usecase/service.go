package usecase

import (
	"time"

	"court-booking/internal/data/repository"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service groups all usecase services for wiring.
type Service struct {
	Auth        AuthService
	Booking     BookingService
	Waitlist    WaitlistService
	Court       CourtService
	PricingRule PricingRuleService
}

func NewService(repo *repository.Repository, tx database.TxManager, cfg *utils.Config, log *zap.Logger) *Service {
	waitlist := NewWaitlistService(tx, repo,
		time.Duration(cfg.Waitlist.NotifyExpiryHours)*time.Hour, log)

	// The arbiter promotes waitlisters inside the cancellation lock, so the
	// waitlist service doubles as its promoter.
	arbiter := NewReservationArbiter(tx, repo, waitlist, log)

	return &Service{
		Auth:        NewAuthService(repo, time.Duration(cfg.Session.ExpiryHours)*time.Hour, log),
		Booking:     NewBookingService(repo, arbiter, cfg.Booking.BasePrice, cfg.Booking.WindowDays, log),
		Waitlist:    waitlist,
		Court:       NewCourtService(repo, log),
		PricingRule: NewPricingRuleService(repo, log),
	}
}
