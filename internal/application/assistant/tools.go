package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailops/backend/internal/application/report"
	domain "github.com/retailops/backend/internal/domain/assistant"
	"github.com/retailops/backend/internal/domain/trade"
)

// Tool names offered to the model
const (
	ToolGetSales         = "get_sales"
	ToolGetInventory     = "get_inventory"
	ToolGetOrderStatus   = "get_order_status"
	ToolGetProductSearch = "get_product_search"
)

// DataSource answers the tool queries. report.ReportService implements it.
type DataSource interface {
	SalesSummary(ctx context.Context, period trade.Period) (*report.SalesSummaryResponse, error)
	InventoryRanking(ctx context.Context, limit int, lowStockOnly bool) (*report.InventoryRankingResponse, error)
	OrderStatus(ctx context.Context, reference string) (*report.OrderLookupResponse, error)
	SearchProducts(ctx context.Context, query string, limit int) (*report.ProductSearchResponse, error)
}

// ToolCatalog is the fixed set of functions the model may call
var ToolCatalog = []domain.ToolDefinition{
	{
		Name:        ToolGetSales,
		Description: "Sales totals per channel (e-commerce, order system) and combined, from the start of the period until now.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "period": {"type": "string", "enum": ["day", "week", "month"], "description": "day = since midnight, week = since Sunday, month = since the 1st"}
  },
  "required": ["period"]
}`),
	},
	{
		Name:        ToolGetInventory,
		Description: "Latest stock level per product, lowest stock first. Each item says whether it is below its minimum.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "low_stock_only": {"type": "boolean", "description": "only items below their minimum stock"},
    "limit": {"type": "integer", "minimum": 1, "maximum": 100}
  }
}`),
	},
	{
		Name:        ToolGetOrderStatus,
		Description: "Look up an order by external id or order number in both channels and report its status.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "reference": {"type": "string", "description": "order id or order number, e.g. #1001"}
  },
  "required": ["reference"]
}`),
	},
	{
		Name:        ToolGetProductSearch,
		Description: "Find products whose SKU or name contains the query.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string"},
    "limit": {"type": "integer", "minimum": 1, "maximum": 50}
  },
  "required": ["query"]
}`),
	},
}

type salesArgs struct {
	Period string `json:"period"`
}

type inventoryArgs struct {
	LowStockOnly bool `json:"low_stock_only"`
	Limit        int  `json:"limit"`
}

type orderStatusArgs struct {
	Reference string `json:"reference"`
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// toolFunc runs one tool with raw JSON arguments
type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

func newToolSet(data DataSource) map[string]toolFunc {
	return map[string]toolFunc{
		ToolGetSales: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a salesArgs
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			period, err := trade.ParsePeriod(a.Period)
			if err != nil {
				return nil, err
			}
			return data.SalesSummary(ctx, period)
		},
		ToolGetInventory: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a inventoryArgs
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			return data.InventoryRanking(ctx, a.Limit, a.LowStockOnly)
		},
		ToolGetOrderStatus: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a orderStatusArgs
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			return data.OrderStatus(ctx, a.Reference)
		},
		ToolGetProductSearch: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a searchArgs
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			return data.SearchProducts(ctx, a.Query, a.Limit)
		},
	}
}

// decodeArgs parses tool arguments. An empty argument string is an empty object.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse arguments: %w", err)
	}
	return nil
}
