package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCourt(
	r chi.Router,
	courtHandler *adaptor.CourtHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Catalog and availability are public
	r.Get("/api/courts", courtHandler.ListCourts)
	r.Get("/api/equipment", courtHandler.ListEquipment)
	r.Get("/api/coaches", courtHandler.ListCoaches)
	r.Get("/api/availability", courtHandler.GetAvailability)
	r.Get("/api/time-slots", courtHandler.GetTimeSlots)
}
