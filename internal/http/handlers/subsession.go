package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

type SubsessionHandler struct {
	log         *logger.Logger
	subsessions services.SubsessionService
}

func NewSubsessionHandler(baseLog *logger.Logger, subsessions services.SubsessionService) *SubsessionHandler {
	return &SubsessionHandler{
		log:         baseLog.With("handler", "SubsessionHandler"),
		subsessions: subsessions,
	}
}

// POST /api/subsessions
func (h *SubsessionHandler) Create(c *gin.Context) {
	var in services.SubsessionInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.subsessions.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_subsession_failed", err)
		return
	}
	response.RespondCreated(c, view)
}

// GET /api/subsessions
func (h *SubsessionHandler) List(c *gin.Context) {
	views, err := h.subsessions.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_subsessions_failed", err)
		return
	}
	response.RespondOK(c, views)
}

// GET /api/subsessions/:id
func (h *SubsessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.subsessions.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_subsession_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/subsessions/session/:sessionId
func (h *SubsessionHandler) ListBySession(c *gin.Context) {
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	views, err := h.subsessions.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, h.log, "list_subsessions_failed", err)
		return
	}
	response.RespondOK(c, views)
}

// PUT /api/subsessions/:id
func (h *SubsessionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.SubsessionInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.subsessions.Update(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_subsession_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /api/subsessions/:id
func (h *SubsessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.subsessions.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_subsession_failed", err)
		return
	}
	response.RespondDeleted(c, "subsession")
}

// POST /api/subsessions/:id/subsubsessions
func (h *SubsessionHandler) AddSubsubsession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.SubsubsessionInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.subsessions.AddSubsubsession(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "add_subsubsession_failed", err)
		return
	}
	response.RespondCreated(c, view)
}
