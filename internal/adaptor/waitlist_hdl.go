package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WaitlistHandler struct {
	service usecase.WaitlistService
	log     *zap.Logger
}

func NewWaitlistHandler(service usecase.WaitlistService, log *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		service: service,
		log:     log.With(zap.String("handler", "waitlist")),
	}
}

// JoinWaitlist handles POST /api/waitlist (protected)
func (h *WaitlistHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := parseSlot(req.CourtID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	entry, position, err := h.service.Join(r.Context(), userID, slot)
	if err != nil {
		handleServiceError(w, h.log, err, "join waitlist")
		return
	}

	utils.ResponseCreated(w, "success", response.WaitlistEntryToResponse(entry, position))
}

// LeaveWaitlist handles DELETE /api/waitlist/{id} (protected)
func (h *WaitlistHandler) LeaveWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid waitlist entry ID", nil)
		return
	}

	if err := h.service.Leave(r.Context(), entryID, userID); err != nil {
		handleServiceError(w, h.log, err, "leave waitlist")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetUserWaitlist handles GET /api/user/waitlist (protected)
func (h *WaitlistHandler) GetUserWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	entries, positions, err := h.service.GetUserEntries(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get user waitlist")
		return
	}

	items := make([]response.WaitlistEntryResponse, 0, len(entries))
	for i, entry := range entries {
		items = append(items, response.WaitlistEntryToResponse(entry, positions[i]))
	}

	utils.ResponseSuccess(w, "success", items)
}

func parseSlot(courtID, date, startTime, endTime string) (entity.SlotKey, error) {
	courtUUID, err := uuid.Parse(courtID)
	if err != nil {
		return entity.SlotKey{}, fmt.Errorf("invalid court ID format %s", courtID)
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return entity.SlotKey{}, fmt.Errorf("invalid date %s", date)
	}
	start, err := utils.ParseClock(startTime)
	if err != nil {
		return entity.SlotKey{}, fmt.Errorf("invalid start time %s", startTime)
	}
	end, err := utils.ParseClock(endTime)
	if err != nil {
		return entity.SlotKey{}, fmt.Errorf("invalid end time %s", endTime)
	}
	return entity.NewSlotKey(courtUUID, day, start, end), nil
}
