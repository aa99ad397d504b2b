// Package report answers the dashboard's read-side questions: sales totals
// per period, lowest stock, order status lookups and product search.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/tidwall/gjson"
)

// Ranking and search bounds
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
	DefaultSearchLimit  = 10
	MaxSearchLimit      = 50
	MaxLookupResults    = 20
)

// ReportService provides application-level report operations
type ReportService struct {
	orders    trade.OrderRepository
	snapshots inventory.SnapshotRepository
	products  catalog.ProductRepository
	location  *time.Location
	now       func() time.Time
}

// NewReportService creates a new ReportService. Period boundaries are computed in loc.
func NewReportService(
	orders trade.OrderRepository,
	snapshots inventory.SnapshotRepository,
	products catalog.ProductRepository,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		orders:    orders,
		snapshots: snapshots,
		products:  products,
		location:  loc,
		now:       time.Now,
	}
}

// WithClock overrides the time source
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// SalesSummary totals orders per source from the start of the period until now
func (s *ReportService) SalesSummary(ctx context.Context, period trade.Period) (*SalesSummaryResponse, error) {
	end := s.now().In(s.location)
	start := period.Start(end)

	totals := make(map[trade.Source]trade.Totals, len(trade.Sources))
	combined := trade.SumOrders(nil)
	for _, src := range trade.Sources {
		orders, err := s.orders.FindInRange(ctx, src, start, end)
		if err != nil {
			return nil, fmt.Errorf("load %s orders: %w", src, err)
		}
		t := trade.SumOrders(orders)
		totals[src] = t
		combined = combined.Add(t)
	}

	return &SalesSummaryResponse{
		Period:      string(period),
		Start:       start,
		End:         end,
		Ecommerce:   toTotals(totals[trade.SourceEcommerce]),
		OrderSystem: toTotals(totals[trade.SourceOrderSystem]),
		Combined:    toTotals(combined),
	}, nil
}

func toTotals(t trade.Totals) TotalsResponse {
	return TotalsResponse{Total: t.Total, Count: t.Count}
}

// InventoryRanking returns the products with the lowest latest stock.
// limit is clamped to [1, MaxRankingLimit]; zero means the default.
func (s *ReportService) InventoryRanking(ctx context.Context, limit int, lowStockOnly bool) (*InventoryRankingResponse, error) {
	limit = ClampRankingLimit(limit)
	levels, err := s.snapshots.LatestLevels(ctx, inventory.LevelFilter{LowStockOnly: lowStockOnly, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("load stock levels: %w", err)
	}

	items := make([]StockItemResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, StockItemResponse{
			ProductID:  l.ProductID,
			SKU:        l.SKU,
			Name:       l.Name,
			Stock:      l.Stock,
			MinStock:   l.MinStock,
			LowStock:   l.IsLowStock(),
			RecordedAt: l.RecordedAt,
		})
	}
	return &InventoryRankingResponse{Limit: limit, LowStockOnly: lowStockOnly, Items: items}, nil
}

// ClampRankingLimit applies the ranking default and bounds
func ClampRankingLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultRankingLimit
	case limit < 1:
		return 1
	case limit > MaxRankingLimit:
		return MaxRankingLimit
	}
	return limit
}

// OrderStatus finds orders in either source whose id or number matches reference
func (s *ReportService) OrderStatus(ctx context.Context, reference string) (*OrderLookupResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Order reference is required")
	}
	orders, err := s.orders.FindByReference(ctx, reference, MaxLookupResults)
	if err != nil {
		return nil, fmt.Errorf("look up order %q: %w", reference, err)
	}

	out := make([]OrderStatusResponse, 0, len(orders))
	for _, o := range orders {
		payload := gjson.ParseBytes(o.Payload)
		out = append(out, OrderStatusResponse{
			Source:            o.Source.String(),
			ExternalID:        o.ExternalID,
			OrderNumber:       o.OrderNumber,
			Status:            o.Status,
			FinancialStatus:   payload.Get("financial_status").String(),
			FulfillmentStatus: payload.Get("fulfillment_status").String(),
			CancelledAt:       payload.Get("cancelled_at").String(),
			TotalAmount:       o.TotalAmount,
			Currency:          o.Currency,
			OrderedAt:         o.OrderedAt,
			UpdatedAt:         o.UpdatedAt,
		})
	}
	return &OrderLookupResponse{Reference: reference, Found: len(out) > 0, Orders: out}, nil
}

// SearchProducts matches query against SKU and name
func (s *ReportService) SearchProducts(ctx context.Context, query string, limit int) (*ProductSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Search query is required")
	}
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}
	products, err := s.products.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{ID: p.ID, SKU: p.SKU, Name: p.Name, MinStock: p.MinStock})
	}
	return &ProductSearchResponse{Query: query, Products: out}, nil
}
