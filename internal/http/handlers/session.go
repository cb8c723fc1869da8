package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

type SessionHandler struct {
	log       *logger.Logger
	sessions  services.SessionService
	maxUpload int64
}

func NewSessionHandler(baseLog *logger.Logger, sessions services.SessionService, maxUpload int64) *SessionHandler {
	return &SessionHandler{
		log:       baseLog.With("handler", "SessionHandler"),
		sessions:  sessions,
		maxUpload: maxUpload,
	}
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var in services.SessionInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.sessions.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_session_failed", err)
		return
	}
	response.RespondCreated(c, view)
}

// GET /api/sessions
func (h *SessionHandler) List(c *gin.Context) {
	views, err := h.sessions.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondServiceError(c, h.log, "list_sessions_failed", err)
		return
	}
	response.RespondOK(c, views)
}

// GET /api/sessions/byDayAndRoom
func (h *SessionHandler) ByDayAndRoom(c *gin.Context) {
	views, err := h.sessions.ListByDayAndRoom(c.Request.Context(), services.DayRoomQuery{
		DayID:  c.Query("dayId"),
		RoomID: c.Query("roomId"),
		Day:    c.Query("day"),
		Room:   c.Query("room"),
	})
	if err != nil {
		respondServiceError(c, h.log, "list_sessions_failed", err)
		return
	}
	response.RespondOK(c, views)
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_session_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.SessionInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.sessions.Update(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_session_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /api/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_session_failed", err)
		return
	}
	response.RespondDeleted(c, "session")
}

type chairpersonIDsRequest struct {
	ChairpersonIDs []uuid.UUID `json:"chairpersonIds" binding:"required"`
}

// PUT /api/sessions/:id/chairpersons
func (h *SessionHandler) UpdateChairpersons(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req chairpersonIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.sessions.UpdateChairpersons(c.Request.Context(), id, req.ChairpersonIDs)
	if err != nil {
		respondServiceError(c, h.log, "update_chairpersons_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/sessions/import
func (h *SessionHandler) Import(c *gin.Context) {
	f, ok := openUpload(c, h.maxUpload)
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.sessions.Import(c.Request.Context(), f)
	observability.Current().ObserveImport("sessions", err)
	if err != nil {
		if res == nil {
			respondServiceError(c, h.log, "import_failed", err)
			return
		}
		h.log.Warn("Import: interrupted", "error", err, "created", res.Created)
	}
	c.JSON(http.StatusOK, res)
}
