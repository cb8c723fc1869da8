package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

type SpeakerHandler struct {
	log       *logger.Logger
	speakers  services.SpeakerService
	maxUpload int64
}

func NewSpeakerHandler(baseLog *logger.Logger, speakers services.SpeakerService, maxUpload int64) *SpeakerHandler {
	return &SpeakerHandler{
		log:       baseLog.With("handler", "SpeakerHandler"),
		speakers:  speakers,
		maxUpload: maxUpload,
	}
}

// POST /api/speakers
func (h *SpeakerHandler) Create(c *gin.Context) {
	var in services.SpeakerInput
	if !bindJSON(c, &in) {
		return
	}
	sp, err := h.speakers.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, h.log, "create_speaker_failed", err)
		return
	}
	response.RespondCreated(c, sp)
}

// GET /api/speakers
func (h *SpeakerHandler) List(c *gin.Context) {
	out, err := h.speakers.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_speakers_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/speakers/:id
func (h *SpeakerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sp, err := h.speakers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_speaker_failed", err)
		return
	}
	response.RespondOK(c, sp)
}

// PUT /api/speakers/:id
func (h *SpeakerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.SpeakerInput
	if !bindJSON(c, &in) {
		return
	}
	sp, err := h.speakers.Update(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, h.log, "update_speaker_failed", err)
		return
	}
	response.RespondOK(c, sp)
}

// DELETE /api/speakers/:id
func (h *SpeakerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.speakers.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_speaker_failed", err)
		return
	}
	response.RespondDeleted(c, "speaker")
}

// POST /api/speakers/import
func (h *SpeakerHandler) Import(c *gin.Context) {
	f, ok := openUpload(c, h.maxUpload)
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.speakers.Import(c.Request.Context(), f)
	observability.Current().ObserveImport("speakers", err)
	if err != nil && res == nil {
		respondServiceError(c, h.log, "import_speakers_failed", err)
		return
	}
	response.RespondOK(c, res)
}

type ChairpersonHandler struct {
	log    *logger.Logger
	chairs services.ChairpersonService
}

func NewChairpersonHandler(baseLog *logger.Logger, chairs services.ChairpersonService) *ChairpersonHandler {
	return &ChairpersonHandler{
		log:    baseLog.With("handler", "ChairpersonHandler"),
		chairs: chairs,
	}
}

type chairpersonRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/chairpersons
func (h *ChairpersonHandler) Create(c *gin.Context) {
	var req chairpersonRequest
	if !bindJSON(c, &req) {
		return
	}
	cp, err := h.chairs.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, h.log, "create_chairperson_failed", err)
		return
	}
	response.RespondCreated(c, cp)
}

// GET /api/chairpersons
func (h *ChairpersonHandler) List(c *gin.Context) {
	out, err := h.chairs.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_chairpersons_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/chairpersons/:id
func (h *ChairpersonHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cp, err := h.chairs.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "get_chairperson_failed", err)
		return
	}
	response.RespondOK(c, cp)
}

// PUT /api/chairpersons/:id
func (h *ChairpersonHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req chairpersonRequest
	if !bindJSON(c, &req) {
		return
	}
	cp, err := h.chairs.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondServiceError(c, h.log, "update_chairperson_failed", err)
		return
	}
	response.RespondOK(c, cp)
}

// DELETE /api/chairpersons/:id
func (h *ChairpersonHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chairs.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_chairperson_failed", err)
		return
	}
	response.RespondDeleted(c, "chairperson")
}
