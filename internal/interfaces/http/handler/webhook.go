package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	integrationapp "github.com/retailops/backend/internal/application/integration"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// WebhookProcessor verifies and applies e-commerce webhook deliveries
type WebhookProcessor interface {
	Handle(ctx context.Context, d integrationapp.WebhookDelivery) (*integrationapp.WebhookResult, error)
}

// WebhookHandler receives e-commerce platform webhooks. It sits outside
// session auth; the HMAC signature authenticates the sender.
type WebhookHandler struct {
	BaseHandler
	webhooks        WebhookProcessor
	signatureHeader string
	topicHeader     string
	maxPayload      int64
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks WebhookProcessor, cfg config.EcommerceConfig) *WebhookHandler {
	h := &WebhookHandler{
		webhooks:        webhooks,
		signatureHeader: cfg.SignatureHeader,
		topicHeader:     cfg.TopicHeader,
		maxPayload:      cfg.MaxPayloadBytes,
	}
	if h.signatureHeader == "" {
		h.signatureHeader = "X-Shopify-Hmac-Sha256"
	}
	if h.topicHeader == "" {
		h.topicHeader = "X-Shopify-Topic"
	}
	if h.maxPayload <= 0 {
		h.maxPayload = 1 << 20
	}
	return h
}

// Receive godoc
// @ID           postEcommerceWebhook
// @Summary      Receive a signed e-commerce order webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Router       /webhooks/ecommerce [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPayload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Webhook payload exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Failed to read webhook body")
		return
	}

	result, err := h.webhooks.Handle(c.Request.Context(), integrationapp.WebhookDelivery{
		Topic:     c.GetHeader(h.topicHeader),
		Signature: c.GetHeader(h.signatureHeader),
		Body:      body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
