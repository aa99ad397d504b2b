package persistence

import (
	"context"
	"testing"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, sku, name string, minStock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, minStock)
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_UpsertBySKU(t *testing.T) {
	repo := NewGormProductRepository(setupSQLiteDB(t))
	ctx := context.Background()

	first, err := repo.UpsertBySKU(ctx, mustProduct(t, "TEE-RED-M", "Red tee", 5))
	require.NoError(t, err)

	second, err := repo.UpsertBySKU(ctx, mustProduct(t, "TEE-RED-M", "Red tee (M)", 8))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "existing row keeps its id")
	assert.Equal(t, "Red tee (M)", second.Name)
	assert.Equal(t, 8, second.MinStock)

	_, err = repo.FindBySKU(ctx, "NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_Search(t *testing.T) {
	repo := NewGormProductRepository(setupSQLiteDB(t))
	ctx := context.Background()
	for _, p := range []*catalog.Product{
		mustProduct(t, "MUG-001", "Coffee Mug", 2),
		mustProduct(t, "MUG-002", "Tea mug", 2),
		mustProduct(t, "HAT-100", "Sun hat", 1),
		mustProduct(t, "PCT-50%", "Discount bin", 0),
	} {
		_, err := repo.UpsertBySKU(ctx, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"matches name case-insensitively", "MUG", 10, []string{"MUG-001", "MUG-002"}},
		{"matches sku", "hat-1", 10, []string{"HAT-100"}},
		{"respects limit", "mug", 1, []string{"MUG-001"}},
		{"wildcards match literally", "50%", 10, []string{"PCT-50%"}},
		{"full-width input is folded", "ＨＡＴ", 10, []string{"HAT-100"}},
		{"no match", "sofa", 10, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query, tt.limit)
			require.NoError(t, err)
			skus := make([]string, 0, len(got))
			for _, p := range got {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tt.want, skus)
		})
	}
}

func TestFoldQuery(t *testing.T) {
	assert.Equal(t, "mug-01", foldQuery("  ＭＵＧ－０１ "))
	assert.Equal(t, "coffee", foldQuery("Coffee"))
}
