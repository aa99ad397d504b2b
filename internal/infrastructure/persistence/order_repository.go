package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/trade"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxOrderReferenceResults = 20

// upsertColumns are overwritten when an order is received again
var upsertColumns = []string{
	"order_number", "total_amount", "currency", "status", "ordered_at", "payload", "updated_at",
}

// undatedUpsertColumns leave ordered_at alone, so a record without a
// timestamp does not move into the current period on every sync
var undatedUpsertColumns = []string{
	"order_number", "total_amount", "currency", "status", "payload", "updated_at",
}

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Upsert writes the order keyed on (source, external_id). The created flag
// comes from a lookup before the write; under a concurrent insert of the
// same key both callers may see created=true, the row itself stays single.
func (r *GormOrderRepository) Upsert(ctx context.Context, order *trade.Order) (bool, error) {
	db := r.db.WithContext(ctx)

	var existing models.OrderModel
	err := db.Select("id").
		Where("source = ? AND external_id = ?", order.Source, order.ExternalID).
		Take(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}

	columns := upsertColumns
	if order.OrderedAtAssumed {
		columns = undatedUpsertColumns
	}

	model := models.OrderModelFromDomain(order)
	model.UpdatedAt = time.Now().UTC()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(model).Error
	if err != nil {
		return false, err
	}

	if !created {
		order.ID = existing.ID
	}
	return created, nil
}

// FindInRange returns a source's orders placed within [from, to]
func (r *GormOrderRepository) FindInRange(ctx context.Context, source trade.Source, from, to time.Time) ([]trade.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("source = ? AND ordered_at >= ? AND ordered_at <= ?", source, from.UTC(), to.UTC()).
		Order("ordered_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

// FindByReference matches external id or order number exactly, in either
// source. A leading '#' on the reference is ignored for order numbers.
func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string, limit int) ([]trade.Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return []trade.Order{}, nil
	}
	if limit <= 0 || limit > maxOrderReferenceResults {
		limit = maxOrderReferenceResults
	}
	bare := strings.TrimPrefix(reference, "#")

	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("external_id IN ? OR order_number IN ?", []string{reference, bare}, []string{reference, bare, "#" + bare}).
		Order("ordered_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

func toDomainOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
