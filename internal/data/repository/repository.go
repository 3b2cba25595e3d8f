package repository

import (
	"court-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Court       CourtRepository
	Equipment   EquipmentRepository
	Coach       CoachRepository
	PricingRule PricingRuleRepository
	Booking     BookingRepository
	Waitlist    WaitlistRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Court:       NewCourtRepository(db, log),
		Equipment:   NewEquipmentRepository(db, log),
		Coach:       NewCoachRepository(db, log),
		PricingRule: NewPricingRuleRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Waitlist:    NewWaitlistRepository(db, log),
	}
}
