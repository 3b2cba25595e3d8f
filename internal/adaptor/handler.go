package adaptor

import (
	"errors"
	"net/http"

	"court-booking/internal/usecase"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Booking  *BookingHandler
	Waitlist *WaitlistHandler
	Court    *CourtHandler
	Pricing  *PricingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Waitlist: NewWaitlistHandler(service.Waitlist, log),
		Court:    NewCourtHandler(service.Court, log),
		Pricing:  NewPricingHandler(service.PricingRule, log),
	}
}

// handleServiceError maps usecase sentinel errors onto HTTP responses. Lock
// exhaustion surfaces as a conflict so clients retry rather than report a
// server fault.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidRule),
		errors.Is(err, usecase.ErrOutsideWindow),
		errors.Is(err, usecase.ErrSelfOverlap):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation + " failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid username or password")

	case errors.Is(err, usecase.ErrAlreadyExists),
		errors.Is(err, usecase.ErrAlreadyQueued),
		errors.Is(err, usecase.ErrSlotNotContested),
		errors.Is(err, usecase.ErrEquipmentUnavailable),
		errors.Is(err, usecase.ErrCoachUnavailable),
		errors.Is(err, database.ErrLockTimeout):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
