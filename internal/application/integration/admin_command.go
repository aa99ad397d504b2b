package integration

import (
	"context"
	"strings"

	"github.com/retailops/backend/internal/domain/shared"
)

// Admin action names
const (
	ActionStatus            = "status"
	ActionRefresh           = "refresh"
	ActionSync              = "sync"
	ActionUpdateCredentials = "update_credentials"
	ActionTestConnection    = "test_connection"
)

// Sync targets
const (
	SyncTargetOrders    = "orders"
	SyncTargetInventory = "inventory"
	SyncTargetAll       = "all"
)

// AdminCommand is one admin action. Each variant dispatches to its own
// AdminCommandHandler method, so a new variant cannot be added without a
// handler for it.
type AdminCommand interface {
	Action() string
	Accept(ctx context.Context, h AdminCommandHandler) (any, error)
}

// AdminCommandHandler handles every AdminCommand variant
type AdminCommandHandler interface {
	HandleStatus(ctx context.Context, cmd StatusCommand) (any, error)
	HandleRefresh(ctx context.Context, cmd RefreshCommand) (any, error)
	HandleSync(ctx context.Context, cmd SyncCommand) (any, error)
	HandleUpdateCredentials(ctx context.Context, cmd UpdateCredentialsCommand) (any, error)
	HandleTestConnection(ctx context.Context, cmd TestConnectionCommand) (any, error)
}

// StatusCommand reports integration health
type StatusCommand struct{}

func (StatusCommand) Action() string { return ActionStatus }

func (c StatusCommand) Accept(ctx context.Context, h AdminCommandHandler) (any, error) {
	return h.HandleStatus(ctx, c)
}

// RefreshCommand logs in to the order system and stores a new token
type RefreshCommand struct{}

func (RefreshCommand) Action() string { return ActionRefresh }

func (c RefreshCommand) Accept(ctx context.Context, h AdminCommandHandler) (any, error) {
	return h.HandleRefresh(ctx, c)
}

// SyncCommand runs sync jobs for a target
type SyncCommand struct {
	Target string
}

func (SyncCommand) Action() string { return ActionSync }

func (c SyncCommand) Accept(ctx context.Context, h AdminCommandHandler) (any, error) {
	return h.HandleSync(ctx, c)
}

// UpdateCredentialsCommand stores order system login credentials
type UpdateCredentialsCommand struct {
	Username string
	Password string
}

func (UpdateCredentialsCommand) Action() string { return ActionUpdateCredentials }

func (c UpdateCredentialsCommand) Accept(ctx context.Context, h AdminCommandHandler) (any, error) {
	return h.HandleUpdateCredentials(ctx, c)
}

// TestConnectionCommand runs the smoke test with the current token
type TestConnectionCommand struct{}

func (TestConnectionCommand) Action() string { return ActionTestConnection }

func (c TestConnectionCommand) Accept(ctx context.Context, h AdminCommandHandler) (any, error) {
	return h.HandleTestConnection(ctx, c)
}

// AdminParams are the optional fields of an admin request
type AdminParams struct {
	Target   string
	Username string
	Password string
}

// ParseAdminCommand builds the command for an action name. Unknown actions
// and missing parameters are invalid input.
func ParseAdminCommand(action string, p AdminParams) (AdminCommand, error) {
	switch strings.TrimSpace(action) {
	case ActionStatus:
		return StatusCommand{}, nil
	case ActionRefresh:
		return RefreshCommand{}, nil
	case ActionSync:
		target := strings.ToLower(strings.TrimSpace(p.Target))
		if target == "" {
			target = SyncTargetAll
		}
		switch target {
		case SyncTargetOrders, SyncTargetInventory, SyncTargetAll:
			return SyncCommand{Target: target}, nil
		}
		return nil, shared.ErrInvalidInput.WithMessage("Sync target must be one of orders, inventory, all")
	case ActionUpdateCredentials:
		if strings.TrimSpace(p.Username) == "" || p.Password == "" {
			return nil, shared.ErrInvalidInput.WithMessage("update_credentials requires username and password")
		}
		return UpdateCredentialsCommand{Username: p.Username, Password: p.Password}, nil
	case ActionTestConnection:
		return TestConnectionCommand{}, nil
	}
	return nil, shared.ErrInvalidInput.WithMessage("Unknown admin action: " + action)
}
