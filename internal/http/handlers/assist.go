package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/assist"
	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type AssistHandler struct {
	assist services.AssistService
}

func NewAssistHandler(assist services.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

type assistRequest struct {
	Action  string         `json:"action"`
	Context assist.Context `json:"context"`
}

// POST /assist
func (h *AssistHandler) Assist(c *gin.Context) {
	// Disabled backends answer 503 before the body is read.
	if err := h.assist.Enabled(); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req assistRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out, err := h.assist.Assist(c.Request.Context(), req.Action, req.Context)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "response": out})
}

// GET /assist/status
func (h *AssistHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.assist.Status())
}
