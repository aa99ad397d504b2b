package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Snapshot is a point-in-time stock reading for a product. Snapshots are
// append-only; current stock is derived from the latest one per product.
type Snapshot struct {
	ID         int64
	ProductID  uuid.UUID
	Stock      int
	RecordedAt time.Time
}

// NewSnapshot creates a snapshot recorded at the given time
func NewSnapshot(productID uuid.UUID, stock int, recordedAt time.Time) (*Snapshot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	return &Snapshot{
		ProductID:  productID,
		Stock:      stock,
		RecordedAt: recordedAt,
	}, nil
}

// StockLevel is the latest snapshot of a product joined with its catalog data
type StockLevel struct {
	ProductID  uuid.UUID
	SKU        string
	Name       string
	Stock      int
	MinStock   int
	RecordedAt time.Time
}

// IsLowStock reports whether stock is strictly below the minimum threshold.
// Stock equal to the minimum is not low.
func IsLowStock(stock, minStock int) bool {
	return stock < minStock
}

// IsLowStock reports whether this level is below its product's threshold
func (l StockLevel) IsLowStock() bool {
	return IsLowStock(l.Stock, l.MinStock)
}

// LevelFilter narrows a latest-stock query
type LevelFilter struct {
	// LowStockOnly keeps only levels where stock < min stock
	LowStockOnly bool
	// Limit caps the number of rows; zero means no cap
	Limit int
}

// SnapshotRepository defines persistence for inventory snapshots
type SnapshotRepository interface {
	// Append inserts a new snapshot and sets its ID
	Append(ctx context.Context, snapshot *Snapshot) error

	// LatestLevels returns the latest snapshot for every product, ordered by
	// stock ascending then SKU. The latest snapshot is the one with the
	// greatest recorded_at, ties broken by the greatest ID.
	LatestLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, error)
}
