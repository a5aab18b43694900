package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type CoverHandler struct {
	covers services.CoverService
}

func NewCoverHandler(covers services.CoverService) *CoverHandler {
	return &CoverHandler{covers: covers}
}

// GET /projects/:id/cover.png
func (h *CoverHandler) Cover(c *gin.Context) {
	png, err := h.covers.RenderCover(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
