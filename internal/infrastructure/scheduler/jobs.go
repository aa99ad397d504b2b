package scheduler

import (
	"context"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/infrastructure/config"
)

// Job names
const (
	JobOrderSync         = "sync_orders"
	JobInventorySync     = "sync_inventory"
	JobCredentialRefresh = "credential_refresh"
)

// Default schedules
const (
	DefaultOrderSyncSchedule     = "*/15 * * * *"
	DefaultInventorySyncSchedule = "5 * * * *"
	DefaultCredentialSchedule    = "*/50 * * * *"
)

// SyncRunner runs third-party sync jobs
type SyncRunner interface {
	SyncOrders(ctx context.Context) (*integration.SyncReport, error)
	SyncInventory(ctx context.Context) (*integration.SyncReport, error)
}

// CredentialRefresher renews the order system bearer token
type CredentialRefresher interface {
	Refresh(ctx context.Context) (*integration.RefreshResult, error)
}

// RegisterJobs adds the sync and credential jobs using the configured schedules.
// An empty schedule falls back to its default; "-" disables the job.
func RegisterJobs(c *CronTrigger, cfg config.SchedulerConfig, syncs SyncRunner, creds CredentialRefresher) error {
	jobs := []struct {
		name     string
		schedule string
		fallback string
		fn       JobFunc
	}{
		{JobCredentialRefresh, cfg.CredentialSchedule, DefaultCredentialSchedule, func(ctx context.Context) error {
			_, err := creds.Refresh(ctx)
			return err
		}},
		{JobOrderSync, cfg.OrderSyncSchedule, DefaultOrderSyncSchedule, func(ctx context.Context) error {
			_, err := syncs.SyncOrders(ctx)
			return err
		}},
		{JobInventorySync, cfg.InventorySyncSchedule, DefaultInventorySyncSchedule, func(ctx context.Context) error {
			_, err := syncs.SyncInventory(ctx)
			return err
		}},
	}

	for _, j := range jobs {
		schedule := j.schedule
		if schedule == "-" {
			continue
		}
		if schedule == "" {
			schedule = j.fallback
		}
		if err := c.Register(j.name, schedule, j.fn); err != nil {
			return err
		}
	}
	return nil
}
