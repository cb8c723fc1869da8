package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

type VenueHandler struct {
	log    *logger.Logger
	venues services.VenueService
}

func NewVenueHandler(baseLog *logger.Logger, venues services.VenueService) *VenueHandler {
	return &VenueHandler{
		log:    baseLog.With("handler", "VenueHandler"),
		venues: venues,
	}
}

// POST /api/rooms
func (h *VenueHandler) CreateRoom(c *gin.Context) {
	var in services.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := h.venues.CreateRoom(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_room_failed", err)
		return
	}
	response.RespondCreated(c, room)
}

// GET /api/rooms
func (h *VenueHandler) ListRooms(c *gin.Context) {
	rooms, err := h.venues.ListRooms(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_rooms_failed", err)
		return
	}
	response.RespondOK(c, rooms)
}

// GET /api/rooms/:id
func (h *VenueHandler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.venues.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_room_failed", err)
		return
	}
	response.RespondOK(c, room)
}

// PUT /api/rooms/:id
func (h *VenueHandler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := h.venues.UpdateRoom(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_room_failed", err)
		return
	}
	response.RespondOK(c, room)
}

// DELETE /api/rooms/:id
func (h *VenueHandler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.venues.DeleteRoom(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_room_failed", err)
		return
	}
	response.RespondDeleted(c, "room")
}

// POST /api/days
func (h *VenueHandler) CreateDay(c *gin.Context) {
	var in services.DayInput
	if !bindJSON(c, &in) {
		return
	}
	day, err := h.venues.CreateDay(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_day_failed", err)
		return
	}
	response.RespondCreated(c, day)
}

// GET /api/days
func (h *VenueHandler) ListDays(c *gin.Context) {
	days, err := h.venues.ListDays(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_days_failed", err)
		return
	}
	response.RespondOK(c, days)
}

// GET /api/days/:id
func (h *VenueHandler) GetDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, err := h.venues.GetDay(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_day_failed", err)
		return
	}
	response.RespondOK(c, day)
}

// PUT /api/days/:id
func (h *VenueHandler) UpdateDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.DayInput
	if !bindJSON(c, &in) {
		return
	}
	day, err := h.venues.UpdateDay(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_day_failed", err)
		return
	}
	response.RespondOK(c, day)
}

// DELETE /api/days/:id
func (h *VenueHandler) DeleteDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.venues.DeleteDay(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_day_failed", err)
		return
	}
	response.RespondDeleted(c, "day")
}
