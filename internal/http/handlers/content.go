package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

// ContentHandler serves the congress side content: sponsors, partners,
// videos, messages and the logo.
type ContentHandler struct {
	log     *logger.Logger
	content services.ContentService
}

func NewContentHandler(baseLog *logger.Logger, content services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:     baseLog.With("handler", "ContentHandler"),
		content: content,
	}
}

// POST /api/sponsors
func (h *ContentHandler) CreateSponsor(c *gin.Context) {
	var in services.SponsorInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.CreateSponsor(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_sponsor_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/sponsors
func (h *ContentHandler) ListSponsors(c *gin.Context) {
	out, err := h.content.ListSponsors(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_sponsors_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/sponsors/:id
func (h *ContentHandler) GetSponsor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.content.GetSponsor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_sponsor_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/sponsors/:id
func (h *ContentHandler) UpdateSponsor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.SponsorInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.UpdateSponsor(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_sponsor_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/sponsors/:id
func (h *ContentHandler) DeleteSponsor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteSponsor(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_sponsor_failed", err)
		return
	}
	response.RespondDeleted(c, "sponsor")
}

// POST /api/partners
func (h *ContentHandler) CreatePartner(c *gin.Context) {
	var in services.PartnerInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.CreatePartner(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_partner_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/partners
func (h *ContentHandler) ListPartners(c *gin.Context) {
	out, err := h.content.ListPartners(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_partners_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/partners/:id
func (h *ContentHandler) GetPartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.content.GetPartner(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_partner_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/partners/:id
func (h *ContentHandler) UpdatePartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.PartnerInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.UpdatePartner(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_partner_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/partners/:id
func (h *ContentHandler) DeletePartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeletePartner(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_partner_failed", err)
		return
	}
	response.RespondDeleted(c, "partner")
}

// POST /api/videos
func (h *ContentHandler) CreateVideo(c *gin.Context) {
	var in services.VideoInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.CreateVideo(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_video_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/videos
func (h *ContentHandler) ListVideos(c *gin.Context) {
	out, err := h.content.ListVideos(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_videos_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/videos/session/:sessionId
func (h *ContentHandler) ListSessionVideos(c *gin.Context) {
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	out, err := h.content.ListSessionVideos(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, h.log, "list_videos_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/videos/:id
func (h *ContentHandler) GetVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.content.GetVideo(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_video_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/videos/:id
func (h *ContentHandler) UpdateVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.VideoInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.UpdateVideo(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_video_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/videos/:id
func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteVideo(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_video_failed", err)
		return
	}
	response.RespondDeleted(c, "video")
}

// POST /api/messages
func (h *ContentHandler) CreateMessage(c *gin.Context) {
	var in services.MessageInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.CreateMessage(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_message_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/messages
func (h *ContentHandler) ListMessages(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	out, err := h.content.ListMessages(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, h.log, "list_messages_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/messages/:id
func (h *ContentHandler) GetMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.content.GetMessage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_message_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/messages/:id
func (h *ContentHandler) UpdateMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.MessageInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.UpdateMessage(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_message_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/messages/:id
func (h *ContentHandler) DeleteMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteMessage(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_message_failed", err)
		return
	}
	response.RespondDeleted(c, "message")
}

// GET /api/logo
func (h *ContentHandler) ActiveLogo(c *gin.Context) {
	out, err := h.content.ActiveLogo(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "get_logo_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/logo/all
func (h *ContentHandler) ListLogos(c *gin.Context) {
	out, err := h.content.ListLogos(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_logos_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/logo
func (h *ContentHandler) CreateLogo(c *gin.Context) {
	var in services.LogoInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.CreateLogo(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_logo_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// PUT /api/logo/:id
func (h *ContentHandler) UpdateLogo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.LogoInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.content.UpdateLogo(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_logo_failed", err)
		return
	}
	response.RespondOK(c, out)
}
