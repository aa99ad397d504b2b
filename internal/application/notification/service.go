// Package notification lists, acknowledges and records dashboard notifications.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// Listing bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// NotificationDTO is a notification as seen by one user
type NotificationDTO struct {
	ID             uuid.UUID   `json:"id"`
	Type           string      `json:"type"`
	Severity       string      `json:"severity"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	Acknowledged   bool        `json:"acknowledged"`
	AcknowledgedBy []uuid.UUID `json:"acknowledged_by"`
	CreatedAt      time.Time   `json:"created_at"`
}

func toDTO(n *notification.Notification, viewer uuid.UUID) NotificationDTO {
	ack := n.AcknowledgedBy
	if ack == nil {
		ack = []uuid.UUID{}
	}
	return NotificationDTO{
		ID:             n.ID,
		Type:           n.Type,
		Severity:       string(n.Severity),
		Title:          n.Title,
		Message:        n.Message,
		Acknowledged:   n.IsAcknowledgedBy(viewer),
		AcknowledgedBy: ack,
		CreatedAt:      n.CreatedAt,
	}
}

// ListQuery narrows a listing for the calling user
type ListQuery struct {
	Limit          int
	Unacknowledged bool
	Types          []string
}

// Service handles notification use cases
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a notification service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify records a new notification. Inserting it publishes it on the realtime feed.
func (s *Service) Notify(ctx context.Context, typ string, severity notification.Severity, title, message string) (*notification.Notification, error) {
	n, err := notification.New(typ, severity, title, message)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}
	s.logger.Debug("Notification recorded",
		zap.String("type", typ),
		zap.String("severity", string(severity)),
		zap.String("id", n.ID.String()),
	)
	return n, nil
}

// List returns notifications newest first for the user
func (s *Service) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]NotificationDTO, error) {
	filter := notification.ListFilter{Limit: clampLimit(q.Limit), Types: q.Types}
	if q.Unacknowledged {
		filter.UnacknowledgedBy = &userID
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationDTO, 0, len(items))
	for i := range items {
		out = append(out, toDTO(&items[i], userID))
	}
	return out, nil
}

// Acknowledge adds the user to the notification's acknowledgements. Repeating it is a no-op.
func (s *Service) Acknowledge(ctx context.Context, id, userID uuid.UUID) (*NotificationDTO, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Acknowledge(userID) {
		if err := s.repo.SaveAcknowledgements(ctx, n); err != nil {
			return nil, fmt.Errorf("save acknowledgement: %w", err)
		}
	}
	dto := toDTO(n, userID)
	return &dto, nil
}

// LatestOfType returns the newest notification of a type
func (s *Service) LatestOfType(ctx context.Context, typ string) (*notification.Notification, error) {
	return s.repo.LatestOfType(ctx, typ)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
