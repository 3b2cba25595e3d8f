package adaptor

import (
	"net/http"

	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// ListCourts handles GET /api/courts (public)
func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := h.service.ListCourts(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// ListEquipment handles GET /api/equipment (public)
func (h *CourtHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.service.ListEquipment(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list equipment")
		return
	}

	utils.ResponseSuccess(w, "success", equipment)
}

// ListCoaches handles GET /api/coaches (public)
func (h *CourtHandler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	coaches, err := h.service.ListCoaches(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list coaches")
		return
	}

	utils.ResponseSuccess(w, "success", coaches)
}

// GetAvailability handles GET /api/availability?date=&start_time=&end_time= (public)
func (h *CourtHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	date := query.Get("date")
	startTime := query.Get("start_time")
	endTime := query.Get("end_time")

	if date == "" || startTime == "" || endTime == "" {
		utils.ResponseBadRequest(w, "date, start_time and end_time are required", nil)
		return
	}

	availability, err := h.service.Availability(r.Context(), date, startTime, endTime)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// GetTimeSlots handles GET /api/time-slots?date= (public)
func (h *CourtHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date is required", nil)
		return
	}

	slots, err := h.service.TimeSlots(r.Context(), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get time slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}
