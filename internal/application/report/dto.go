package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalsResponse is the sum and count of orders in a range. Total is a decimal string.
type TotalsResponse struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// SalesSummaryResponse represents the sales summary response
type SalesSummaryResponse struct {
	Period      string         `json:"period"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Ecommerce   TotalsResponse `json:"ecommerce"`
	OrderSystem TotalsResponse `json:"order_system"`
	Combined    TotalsResponse `json:"combined"`
}

// StockItemResponse is the latest stock reading of one product
type StockItemResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Stock      int       `json:"stock"`
	MinStock   int       `json:"min_stock"`
	LowStock   bool      `json:"low_stock"`
	RecordedAt time.Time `json:"recorded_at"`
}

// InventoryRankingResponse lists products with the lowest current stock
type InventoryRankingResponse struct {
	Limit        int                 `json:"limit"`
	LowStockOnly bool                `json:"low_stock_only"`
	Items        []StockItemResponse `json:"items"`
}

// OrderStatusResponse is an order matched by reference, with status fields
// pulled from the stored payload
type OrderStatusResponse struct {
	Source            string          `json:"source"`
	ExternalID        string          `json:"external_id"`
	OrderNumber       string          `json:"order_number"`
	Status            string          `json:"status"`
	FinancialStatus   string          `json:"financial_status,omitempty"`
	FulfillmentStatus string          `json:"fulfillment_status,omitempty"`
	CancelledAt       string          `json:"cancelled_at,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Currency          string          `json:"currency,omitempty"`
	OrderedAt         time.Time       `json:"ordered_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OrderLookupResponse is the result of an order reference search
type OrderLookupResponse struct {
	Reference string                `json:"reference"`
	Found     bool                  `json:"found"`
	Orders    []OrderStatusResponse `json:"orders"`
}

// ProductResponse is a catalog entry
type ProductResponse struct {
	ID       uuid.UUID `json:"id"`
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	MinStock int       `json:"min_stock"`
}

// ProductSearchResponse is the result of a product search
type ProductSearchResponse struct {
	Query    string            `json:"query"`
	Products []ProductResponse `json:"products"`
}
