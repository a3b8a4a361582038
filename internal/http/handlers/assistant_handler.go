// README: Conversational quoting endpoint backed by the concierge assistant.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blackcar/internal/service"
)

type AssistantHandler struct {
	assistant *service.QuoteAssistant
}

func NewAssistantHandler(assistant *service.QuoteAssistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type assistantReq struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) Message(c *gin.Context) {
	if h.assistant == nil {
		writeError(c, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	var req assistantReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	reply, err := h.assistant.HandleMessage(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
