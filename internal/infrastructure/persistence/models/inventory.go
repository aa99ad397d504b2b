package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/inventory"
)

// InventorySnapshotModel is the persistence model for inventory.Snapshot.
// Rows are never updated.
type InventorySnapshotModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index:idx_snapshot_product_recorded,priority:1"`
	Stock      int       `gorm:"not null"`
	RecordedAt time.Time `gorm:"not null;index:idx_snapshot_product_recorded,priority:2"`
}

// TableName returns the table name for GORM
func (InventorySnapshotModel) TableName() string {
	return "inventory_snapshots"
}

// ToDomain converts the model to a domain snapshot
func (m *InventorySnapshotModel) ToDomain() *inventory.Snapshot {
	return &inventory.Snapshot{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Stock:      m.Stock,
		RecordedAt: m.RecordedAt,
	}
}

// InventorySnapshotModelFromDomain builds a model from a domain snapshot
func InventorySnapshotModelFromDomain(s *inventory.Snapshot) *InventorySnapshotModel {
	return &InventorySnapshotModel{
		ID:         s.ID,
		ProductID:  s.ProductID,
		Stock:      s.Stock,
		RecordedAt: s.RecordedAt.UTC(),
	}
}

// StockLevelRow is the scan target of the latest-snapshot query
type StockLevelRow struct {
	ProductID  uuid.UUID
	SKU        string
	Name       string
	Stock      int
	MinStock   int
	RecordedAt time.Time
}

// ToDomain converts the row to a domain stock level
func (r StockLevelRow) ToDomain() inventory.StockLevel {
	return inventory.StockLevel{
		ProductID:  r.ProductID,
		SKU:        r.SKU,
		Name:       r.Name,
		Stock:      r.Stock,
		MinStock:   r.MinStock,
		RecordedAt: r.RecordedAt,
	}
}
