package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/retailops/backend/internal/application/notification"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// NotificationInbox lists and acknowledges notifications for a user
type NotificationInbox interface {
	List(ctx context.Context, userID uuid.UUID, q notificationapp.ListQuery) ([]notificationapp.NotificationDTO, error)
	Acknowledge(ctx context.Context, id, userID uuid.UUID) (*notificationapp.NotificationDTO, error)
}

// StreamServer upgrades a request to a realtime notification stream. It
// blocks until the client disconnects.
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error
}

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	BaseHandler
	inbox  NotificationInbox
	stream StreamServer
}

// NewNotificationHandler creates a new NotificationHandler. A nil stream
// disables the WebSocket endpoint.
func NewNotificationHandler(inbox NotificationInbox, stream StreamServer) *NotificationHandler {
	return &NotificationHandler{inbox: inbox, stream: stream}
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications, newest first
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "1-200" default(50)
// @Param        unacknowledged query bool false "Hide notifications the caller acknowledged"
// @Param        type query []string false "Filter by type"
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var q dto.NotificationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	query := notificationapp.ListQuery{Unacknowledged: q.Unacknowledged, Types: q.Types}
	if q.Limit != nil {
		query.Limit = *q.Limit
	}
	items, err := h.inbox.List(c.Request.Context(), user.ID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Acknowledge godoc
// @ID           acknowledgeNotification
// @Summary      Acknowledge a notification
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Router       /notifications/{id}/acknowledge [post]
func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindError(c, err)
		return
	}

	n, err := h.inbox.Acknowledge(c.Request.Context(), uuid.MustParse(req.ID), user.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// Stream godoc
// @ID           streamNotifications
// @Summary      Realtime notification stream (WebSocket)
// @Description  The session token may be passed as the access_token query parameter
// @Tags         notifications
// @Security     BearerAuth
// @Param        access_token query string false "Session token"
// @Router       /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if h.stream == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, "Realtime notifications are disabled")
		return
	}
	// On upgrade failure the upgrader has already answered the request
	if err := h.stream.ServeWS(c.Writer, c.Request, user.ID); err != nil {
		logger.L(c.Request.Context()).Warn("WebSocket upgrade failed", zap.Error(err))
	}
}
