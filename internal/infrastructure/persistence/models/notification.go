package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notification.Notification.
// AcknowledgedBy is stored as a JSON array of user ids.
type NotificationModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Type           string                `gorm:"type:varchar(50);not null;index"`
	Severity       notification.Severity `gorm:"type:varchar(20);not null"`
	Title          string                `gorm:"type:varchar(255);not null"`
	Message        string                `gorm:"type:text"`
	AcknowledgedBy []uuid.UUID           `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt      time.Time             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	acked := m.AcknowledgedBy
	if acked == nil {
		acked = []uuid.UUID{}
	}
	return &notification.Notification{
		ID:             m.ID,
		Type:           m.Type,
		Severity:       m.Severity,
		Title:          m.Title,
		Message:        m.Message,
		AcknowledgedBy: acked,
		CreatedAt:      m.CreatedAt,
	}
}

// NotificationModelFromDomain builds a model from a domain notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	acked := n.AcknowledgedBy
	if acked == nil {
		acked = []uuid.UUID{}
	}
	return &NotificationModel{
		ID:             n.ID,
		Type:           n.Type,
		Severity:       n.Severity,
		Title:          n.Title,
		Message:        n.Message,
		AcknowledgedBy: acked,
		CreatedAt:      n.CreatedAt.UTC(),
	}
}
