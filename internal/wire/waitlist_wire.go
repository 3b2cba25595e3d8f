package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWaitlist(
	r chi.Router,
	waitlistHandler *adaptor.WaitlistHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// All waitlist routes are protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/waitlist - Queue for a fully booked slot
		r.Post("/api/waitlist", waitlistHandler.JoinWaitlist)

		// DELETE /api/waitlist/{id} - Leave a queue
		r.Delete("/api/waitlist/{id}", waitlistHandler.LeaveWaitlist)

		// GET /api/user/waitlist - View own queue entries
		r.Get("/api/user/waitlist", waitlistHandler.GetUserWaitlist)
	})
}
