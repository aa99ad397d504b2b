package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationLookup finds the newest notification of a type
type NotificationLookup interface {
	LatestOfType(ctx context.Context, typ string) (*notification.Notification, error)
}

// IntegrationFlags says which third parties have configuration
type IntegrationFlags struct {
	WebhookConfigured     bool `json:"webhook_configured"`
	LLMConfigured         bool `json:"llm_configured"`
	OrderSystemConfigured bool `json:"order_system_configured"`
}

// StatusResponse describes the integrations. It carries secret metadata only.
type StatusResponse struct {
	IntegrationFlags
	Credentials       []credential.Metadata `json:"credentials"`
	LastOrderSync     *SyncStatus           `json:"last_order_sync"`
	LastInventorySync *SyncStatus           `json:"last_inventory_sync"`
	CheckedAt         time.Time             `json:"checked_at"`
}

// SyncStatus is the latest sync notification of a job
type SyncStatus struct {
	At       time.Time             `json:"at"`
	Severity notification.Severity `json:"severity"`
	Message  string                `json:"message"`
}

// SyncAllResponse holds the reports of a sync of every target
type SyncAllResponse struct {
	Orders    *integration.SyncReport `json:"orders"`
	Inventory *integration.SyncReport `json:"inventory"`
}

// UpdateCredentialsResponse confirms stored credentials without echoing them
type UpdateCredentialsResponse struct {
	Updated     bool                  `json:"updated"`
	Credentials []credential.Metadata `json:"credentials"`
}

// AdminService executes admin commands
type AdminService struct {
	credentials   *CredentialService
	syncs         *SyncService
	notifications NotificationLookup
	flags         IntegrationFlags
	logger        *zap.Logger
	now           func() time.Time
}

var _ AdminCommandHandler = (*AdminService)(nil)

// NewAdminService creates a new AdminService
func NewAdminService(
	credentials *CredentialService,
	syncs *SyncService,
	notifications NotificationLookup,
	flags IntegrationFlags,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		credentials:   credentials,
		syncs:         syncs,
		notifications: notifications,
		flags:         flags,
		logger:        logger,
		now:           time.Now,
	}
}

// Execute runs a command
func (s *AdminService) Execute(ctx context.Context, cmd AdminCommand) (any, error) {
	if s.logger != nil {
		s.logger.Info("Admin action", zap.String("action", cmd.Action()))
	}
	return cmd.Accept(ctx, s)
}

// HandleStatus reports credential metadata, configuration flags and the latest sync runs
func (s *AdminService) HandleStatus(ctx context.Context, _ StatusCommand) (any, error) {
	creds, err := s.credentials.Describe(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.latestSync(ctx, notification.TypeSyncOrders)
	if err != nil {
		return nil, err
	}
	stock, err := s.latestSync(ctx, notification.TypeSyncInventory)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{
		IntegrationFlags:  s.flags,
		Credentials:       creds,
		LastOrderSync:     orders,
		LastInventorySync: stock,
		CheckedAt:         s.now().UTC(),
	}, nil
}

func (s *AdminService) latestSync(ctx context.Context, typ string) (*SyncStatus, error) {
	n, err := s.notifications.LatestOfType(ctx, typ)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s notification: %w", typ, err)
	}
	return &SyncStatus{At: n.CreatedAt, Severity: n.Severity, Message: n.Message}, nil
}

// HandleRefresh refreshes the order system token
func (s *AdminService) HandleRefresh(ctx context.Context, _ RefreshCommand) (any, error) {
	return s.credentials.Refresh(ctx)
}

// HandleSync runs the requested sync jobs. "all" runs orders, then inventory.
func (s *AdminService) HandleSync(ctx context.Context, cmd SyncCommand) (any, error) {
	switch cmd.Target {
	case SyncTargetOrders:
		return s.syncs.SyncOrders(ctx)
	case SyncTargetInventory:
		return s.syncs.SyncInventory(ctx)
	}
	orders, err := s.syncs.SyncOrders(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.syncs.SyncInventory(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncAllResponse{Orders: orders, Inventory: stock}, nil
}

// HandleUpdateCredentials stores the order system username and password
func (s *AdminService) HandleUpdateCredentials(ctx context.Context, cmd UpdateCredentialsCommand) (any, error) {
	if err := s.credentials.UpdateCredentials(ctx, cmd.Username, cmd.Password); err != nil {
		return nil, err
	}
	creds, err := s.credentials.Describe(ctx)
	if err != nil {
		return nil, err
	}
	return &UpdateCredentialsResponse{Updated: true, Credentials: creds}, nil
}

// HandleTestConnection runs the smoke test with the stored token
func (s *AdminService) HandleTestConnection(ctx context.Context, _ TestConnectionCommand) (any, error) {
	return s.credentials.TestConnection(ctx)
}
