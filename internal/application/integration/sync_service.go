package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SyncRepositories groups the stores a sync run writes to
type SyncRepositories struct {
	Orders    trade.OrderRepository
	Products  catalog.ProductRepository
	Snapshots inventory.SnapshotRepository
}

// SyncService pulls orders and inventory from the order system
type SyncService struct {
	client   integration.OrderSystemClient
	store    credential.Store
	repos    SyncRepositories
	notifier Notifier
	cfg      config.SyncConfig
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewSyncService creates a new SyncService
func NewSyncService(
	client integration.OrderSystemClient,
	store credential.Store,
	repos SyncRepositories,
	notifier Notifier,
	cfg config.SyncConfig,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *SyncService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if metrics == nil {
		metrics = telemetry.NopBusinessMetrics()
	}
	return &SyncService{
		client:   client,
		store:    store,
		repos:    repos,
		notifier: notifier,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// pageHandler applies one fetched page and reports whether more pages follow
type pageHandler func(ctx context.Context, token string, page integration.PageRequest, report *integration.SyncReport) (hasMore bool, err error)

// SyncOrders upserts every order page from the order system
func (s *SyncService) SyncOrders(ctx context.Context) (*integration.SyncReport, error) {
	return s.run(ctx, integration.SyncJobOrders, notification.TypeSyncOrders, "Order sync", s.syncOrderPage)
}

// SyncInventory upserts every product and appends its stock reading
func (s *SyncService) SyncInventory(ctx context.Context) (*integration.SyncReport, error) {
	return s.run(ctx, integration.SyncJobInventory, notification.TypeSyncInventory, "Inventory sync", s.syncInventoryPage)
}

func (s *SyncService) run(ctx context.Context, job integration.SyncJob, typ, label string, handle pageHandler) (report *integration.SyncReport, err error) {
	started := s.now()
	ctx, span := telemetry.StartSpan(ctx, "SyncService", string(job))
	defer func() {
		telemetry.EndSpan(span, err)
		synced, failed := 0, 0
		if report != nil {
			synced, failed = report.SyncedCount, report.ErrorCount
		}
		s.metrics.RecordSyncRun(ctx, string(job), synced, failed, s.now().Sub(started), err)
	}()

	log := logger.LOr(ctx, s.logger).With(zap.String("sync_job", string(job)))

	token, err := AccessToken(ctx, s.store)
	if err != nil {
		log.Warn("Sync skipped", zap.Error(err))
		return nil, err
	}

	report = integration.NewSyncReport(job, s.cfg.MaxReportedErrors, started)
	for page := 1; s.cfg.MaxPages <= 0 || page <= s.cfg.MaxPages; page++ {
		hasMore, err := handle(ctx, token, integration.PageRequest{Page: page, PageSize: s.cfg.PageSize}, report)
		if err != nil {
			log.Error("Sync aborted", zap.Int("page", page), zap.Error(err))
			s.notify(ctx, typ, notification.SeverityError, label+" failed", err.Error())
			return nil, err
		}
		if !hasMore {
			break
		}
		if page == s.cfg.MaxPages {
			log.Warn("Sync stopped at page limit", zap.Int("max_pages", s.cfg.MaxPages))
		}
	}
	report.Finish(s.now())

	severity := notification.SeveritySuccess
	if report.HasErrors() {
		severity = notification.SeverityWarning
	}
	s.notify(ctx, typ, severity, label+" finished",
		fmt.Sprintf("%d synced, %d failed", report.SyncedCount, report.ErrorCount))

	log.Info("Sync finished",
		zap.Int("synced", report.SyncedCount),
		zap.Int("failed", report.ErrorCount),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}

// notify records a run notification. A failure here does not undo the
// records already written, so it is logged rather than returned.
func (s *SyncService) notify(ctx context.Context, typ string, severity notification.Severity, title, message string) {
	if _, err := s.notifier.Notify(ctx, typ, severity, title, message); err != nil {
		logger.LOr(ctx, s.logger).Error("Failed to record sync notification", zap.String("type", typ), zap.Error(err))
	}
}

func (s *SyncService) syncOrderPage(ctx context.Context, token string, req integration.PageRequest, report *integration.SyncReport) (bool, error) {
	page, err := s.client.FetchOrders(ctx, token, req)
	if err != nil {
		return false, fmt.Errorf("fetch orders page %d: %w", req.Page, err)
	}
	for i, item := range page.Items {
		ref := recordRef(item.OrderNumber, req, i)
		if err := s.upsertOrder(ctx, item); err != nil {
			report.RecordFailure(ref, err)
			continue
		}
		report.RecordSuccess()
	}
	return page.HasMore, nil
}

func (s *SyncService) upsertOrder(ctx context.Context, item integration.ExternalOrder) error {
	if item.Problem != "" {
		return errors.New(item.Problem)
	}
	order, err := trade.NewOrder(trade.SourceOrderSystem, item.OrderNumber, item.TotalAmount, item.OrderedAt, item.Raw)
	if err != nil {
		return err
	}
	order.OrderNumber = item.OrderNumber
	order.Currency = item.Currency
	order.Status = item.Status
	_, err = s.repos.Orders.Upsert(ctx, order)
	return err
}

func (s *SyncService) syncInventoryPage(ctx context.Context, token string, req integration.PageRequest, report *integration.SyncReport) (bool, error) {
	page, err := s.client.FetchInventory(ctx, token, req)
	if err != nil {
		return false, fmt.Errorf("fetch inventory page %d: %w", req.Page, err)
	}
	for i, item := range page.Items {
		ref := recordRef(item.SKU, req, i)
		if err := s.recordStock(ctx, item); err != nil {
			report.RecordFailure(ref, err)
			continue
		}
		report.RecordSuccess()
	}
	return page.HasMore, nil
}

// recordStock upserts the product, then appends a snapshot. The two writes
// are independent: a failed append leaves the product update in place.
func (s *SyncService) recordStock(ctx context.Context, item integration.ExternalInventoryItem) error {
	if item.Problem != "" {
		return errors.New(item.Problem)
	}
	product, err := catalog.NewProduct(item.SKU, item.Name, item.MinStock)
	if err != nil {
		return err
	}
	stored, err := s.repos.Products.UpsertBySKU(ctx, product)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	snapshot, err := inventory.NewSnapshot(stored.ID, item.Stock, s.now())
	if err != nil {
		return err
	}
	if err := s.repos.Snapshots.Append(ctx, snapshot); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

func recordRef(key string, req integration.PageRequest, index int) string {
	if key != "" {
		return key
	}
	return fmt.Sprintf("page %d row %d", req.Page, index+1)
}
