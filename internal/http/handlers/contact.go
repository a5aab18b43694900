package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/contact"
	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type ContactHandler struct {
	contact services.ContactService
}

func NewContactHandler(contact services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var sub contact.Submission
	if err := bindJSON(c, &sub); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	meta := map[string]any{
		"remote_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
		"request_id": ctxutil.RequestID(c.Request.Context()),
	}
	if err := h.contact.Submit(c.Request.Context(), sub, meta); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Email sent successfully"})
}

// GET /contact/messages[?limit=]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.contact.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, msgs)
}
