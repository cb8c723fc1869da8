package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/response"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/apierr"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

const uploadField = "file"

// respondServiceError answers with the status carried by an apierr.Error and
// falls back to 500 for anything else.
func respondServiceError(c *gin.Context, log *logger.Logger, code string, err error) {
	if ae, ok := apierr.As(err); ok {
		response.RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	if log != nil {
		log.Error("request failed", "code", code, "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	response.RespondError(c, http.StatusInternalServerError, code, err)
}

func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s: %q", param, c.Param(param)))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

// openUpload returns the multipart file under "file", capped at maxBytes.
func openUpload(c *gin.Context, maxBytes int64) (io.ReadCloser, bool) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "upload_too_large", err)
			return nil, false
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("no file uploaded under %q", uploadField))
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return nil, false
	}
	return f, true
}
