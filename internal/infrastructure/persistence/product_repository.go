package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxProductSearchLimit = 50

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// UpsertBySKU inserts the product or refreshes name and min stock on the row
// that already owns the SKU, then reads the stored row back.
func (r *GormProductRepository) UpsertBySKU(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	model := models.ProductModelFromDomain(product)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "min_stock", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return nil, err
	}
	return r.FindBySKU(ctx, product.SKU)
}

// FindBySKU finds a product by its exact SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("sku = ?", catalog.NormalizeSKU(sku)).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search matches query against SKU and name, case-insensitively, ordered by SKU
func (r *GormProductRepository) Search(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	if limit <= 0 || limit > maxProductSearchLimit {
		limit = maxProductSearchLimit
	}
	pattern := "%" + escapeLike(foldQuery(query)) + "%"

	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Where(`LOWER(sku) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("sku ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].ToDomain())
	}
	return products, nil
}

// foldQuery maps compatibility forms such as full-width letters to their
// plain equivalents and lower-cases the result, matching LOWER() in SQL
func foldQuery(q string) string {
	return cases.Lower(language.Und).String(norm.NFKC.String(strings.TrimSpace(q)))
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
