package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type UploadHandler struct {
	media services.MediaService
}

func NewUploadHandler(media services.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

// POST /upload (multipart field "file")
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.RespondAPIError(c, apierr.PayloadTooLarge("File too large"))
			return
		}
		response.RespondAPIError(c, apierr.BadRequest("No file uploaded"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest("Failed to read upload"))
		return
	}
	defer f.Close()

	path, err := h.media.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "path": path})
}
