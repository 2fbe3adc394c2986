package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/assistant"
)

// Asker is the slice of assistant.Service the handler calls.
type Asker interface {
	Ask(ctx context.Context, question string) (*assistant.Answer, error)
}

type AssistantHandler struct {
	assistant Asker
	logger    *zap.Logger
}

func NewAssistantHandler(asker Asker, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: asker, logger: logger}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask handles POST /v1/assistant
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}
