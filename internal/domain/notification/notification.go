package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Severity tags how a notification should be presented
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValid returns true if the severity is known
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Notification types written by background jobs and webhooks
const (
	TypeNewOrder      = "new_order"
	TypeSyncOrders    = "sync_orders"
	TypeSyncInventory = "sync_inventory"
	TypeCredential    = "credential"
)

// Notification is an informational record shown on the dashboard
type Notification struct {
	ID             uuid.UUID
	Type           string
	Severity       Severity
	Title          string
	Message        string
	AcknowledgedBy []uuid.UUID
	CreatedAt      time.Time
}

// New creates a notification
func New(typ string, severity Severity, title, message string) (*Notification, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Notification type cannot be empty")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Unknown notification severity")
	}
	return &Notification{
		ID:             uuid.New(),
		Type:           typ,
		Severity:       severity,
		Title:          title,
		Message:        message,
		AcknowledgedBy: []uuid.UUID{},
		CreatedAt:      time.Now(),
	}, nil
}

// IsAcknowledgedBy reports whether the user has acknowledged the notification
func (n *Notification) IsAcknowledgedBy(userID uuid.UUID) bool {
	for _, id := range n.AcknowledgedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Acknowledge records the user's acknowledgement. It reports false when the
// user had already acknowledged.
func (n *Notification) Acknowledge(userID uuid.UUID) bool {
	if n.IsAcknowledgedBy(userID) {
		return false
	}
	n.AcknowledgedBy = append(n.AcknowledgedBy, userID)
	return true
}

// ListFilter narrows a notification listing
type ListFilter struct {
	Limit int
	// UnacknowledgedBy, when set, excludes notifications that user acknowledged
	UnacknowledgedBy *uuid.UUID
	// Types, when non-empty, keeps only these types
	Types []string
}

// Repository defines persistence for notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// FindByID returns shared.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// List returns notifications newest first
	List(ctx context.Context, filter ListFilter) ([]Notification, error)
	// SaveAcknowledgements persists the AcknowledgedBy set
	SaveAcknowledgements(ctx context.Context, n *Notification) error
	// LatestOfType returns the newest notification of the type, or shared.ErrNotFound
	LatestOfType(ctx context.Context, typ string) (*Notification, error)
}
