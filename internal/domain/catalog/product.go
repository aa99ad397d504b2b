package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Product represents a sellable SKU
type Product struct {
	ID       uuid.UUID
	SKU      string
	Name     string
	MinStock int
	// Embedding is an optional vector used for semantic search
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a product, normalising the SKU
func NewProduct(sku, name string, minStock int) (*Product, error) {
	sku = NormalizeSKU(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	if minStock < 0 {
		return nil, shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = sku
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		MinStock:  minStock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeSKU trims surrounding whitespace; SKUs are otherwise case-sensitive
func NormalizeSKU(sku string) string {
	return strings.TrimSpace(sku)
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	// UpsertBySKU inserts the product or updates name and min stock of the
	// existing row with the same SKU. The stored product (with its persisted
	// ID) is returned.
	UpsertBySKU(ctx context.Context, product *Product) (*Product, error)

	// FindBySKU returns shared.ErrNotFound when no product has the SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Search matches the query against SKU and name, case-insensitively
	Search(ctx context.Context, query string, limit int) ([]Product, error)
}
