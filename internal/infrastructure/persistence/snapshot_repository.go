package persistence

import (
	"context"
	"strings"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// latestLevelsQuery selects, per product, the snapshot no other snapshot
// supersedes: none newer, and none at the same instant with a larger id.
// It avoids DISTINCT ON so it also runs on SQLite.
const latestLevelsQuery = `
SELECT s.product_id, p.sku, p.name, s.stock, p.min_stock, s.recorded_at
FROM inventory_snapshots s
JOIN products p ON p.id = s.product_id
WHERE NOT EXISTS (
	SELECT 1 FROM inventory_snapshots n
	WHERE n.product_id = s.product_id
	  AND (n.recorded_at > s.recorded_at OR (n.recorded_at = s.recorded_at AND n.id > s.id))
)`

// GormSnapshotRepository implements inventory.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Append inserts a snapshot and copies the generated ID back
func (r *GormSnapshotRepository) Append(ctx context.Context, snapshot *inventory.Snapshot) error {
	model := models.InventorySnapshotModelFromDomain(snapshot)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	snapshot.ID = model.ID
	return nil
}

// LatestLevels returns the latest stock per product ordered by stock then SKU
func (r *GormSnapshotRepository) LatestLevels(ctx context.Context, filter inventory.LevelFilter) ([]inventory.StockLevel, error) {
	var sb strings.Builder
	sb.WriteString(latestLevelsQuery)
	if filter.LowStockOnly {
		sb.WriteString("\n  AND s.stock < p.min_stock")
	}
	sb.WriteString("\nORDER BY s.stock ASC, p.sku ASC")

	args := []any{}
	if filter.Limit > 0 {
		sb.WriteString("\nLIMIT ?")
		args = append(args, filter.Limit)
	}

	var rows []models.StockLevelRow
	if err := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	levels := make([]inventory.StockLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, row.ToDomain())
	}
	return levels, nil
}

var _ inventory.SnapshotRepository = (*GormSnapshotRepository)(nil)
