package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assistantapp "github.com/retailops/backend/internal/application/assistant"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// QueryAnswerer answers natural-language questions about the business
type QueryAnswerer interface {
	Query(ctx context.Context, text string) (*assistantapp.Answer, error)
}

// AssistantHandler handles the assistant endpoint
type AssistantHandler struct {
	BaseHandler
	assistant QueryAnswerer
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistant QueryAnswerer) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Query godoc
// @ID           postAssistantQuery
// @Summary      Ask the assistant a question
// @Tags         assistant
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body dto.AssistantQueryRequest true "Question"
// @Router       /assistant/query [post]
func (h *AssistantHandler) Query(c *gin.Context) {
	var req dto.AssistantQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "Query must not be empty")
		return
	}

	// a failed model or tool call is a server error whatever it wraps
	answer, err := h.assistant.Query(c.Request.Context(), query)
	if err != nil {
		logger.L(c.Request.Context()).Error("Assistant query failed", zap.Error(err))
		h.InternalError(c, err.Error())
		return
	}
	h.Success(c, answer)
}
