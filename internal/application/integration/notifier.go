// Package integration runs the third-party flows: e-commerce webhooks,
// order-system sync jobs, credential refresh and the admin actions over them.
package integration

import (
	"context"

	"github.com/retailops/backend/internal/domain/notification"
)

// Notifier records a notification. notification.Service implements it.
type Notifier interface {
	Notify(ctx context.Context, typ string, severity notification.Severity, title, message string) (*notification.Notification, error)
}
