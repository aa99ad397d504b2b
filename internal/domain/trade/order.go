package trade

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Source identifies which system an order came from
type Source string

const (
	SourceEcommerce   Source = "ecommerce"
	SourceOrderSystem Source = "order_system"
)

// Sources lists every order source in reporting order
var Sources = []Source{SourceEcommerce, SourceOrderSystem}

// IsValid returns true if the source is known
func (s Source) IsValid() bool {
	return s == SourceEcommerce || s == SourceOrderSystem
}

// String returns the string representation
func (s Source) String() string {
	return string(s)
}

// Order is an order from either source. ExternalID is the source's own
// identifier and, together with Source, the upsert key.
type Order struct {
	ID          uuid.UUID
	Source      Source
	ExternalID  string
	OrderNumber string
	TotalAmount decimal.Decimal
	Currency    string
	Status      string
	OrderedAt   time.Time
	// OrderedAtAssumed is set when the source gave no timestamp and
	// OrderedAt is the receive time. Such an order keeps its stored date on
	// later upserts.
	OrderedAtAssumed bool
	// Payload is the original record as received, kept for ad hoc extraction
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder creates an order after validating the upsert key and amount
func NewOrder(source Source, externalID string, total decimal.Decimal, orderedAt time.Time, payload json.RawMessage) (*Order, error) {
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_SOURCE", "Unknown order source")
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order identifier cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ORDER_AMOUNT", "Order total cannot be negative")
	}
	assumed := orderedAt.IsZero()
	if assumed {
		orderedAt = time.Now()
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	now := time.Now()
	return &Order{
		ID:          uuid.New(),
		Source:      source,
		ExternalID:  externalID,
		TotalAmount: total,
		OrderedAt:   orderedAt,
		Payload:     payload,
		CreatedAt:   now,
		UpdatedAt:   now,

		OrderedAtAssumed: assumed,
	}, nil
}

// Totals is the sum and row count of orders in a range
type Totals struct {
	Total decimal.Decimal
	Count int64
}

// Add returns the element-wise sum of two totals
func (t Totals) Add(o Totals) Totals {
	return Totals{Total: t.Total.Add(o.Total), Count: t.Count + o.Count}
}

// SumOrders totals the amounts of the given orders
func SumOrders(orders []Order) Totals {
	t := Totals{Total: decimal.Zero}
	for _, o := range orders {
		t.Total = t.Total.Add(o.TotalAmount)
		t.Count++
	}
	return t
}

// OrderRepository defines persistence for orders
type OrderRepository interface {
	// Upsert inserts the order or overwrites the row with the same
	// (source, external id). Last write wins, except that an assumed
	// ordered_at never replaces a stored one. It reports whether a new row
	// was created.
	Upsert(ctx context.Context, order *Order) (created bool, err error)

	// FindInRange returns orders of a source with from <= ordered_at <= to
	FindInRange(ctx context.Context, source Source, from, to time.Time) ([]Order, error)

	// FindByReference matches the reference against external id or order number in both sources
	FindByReference(ctx context.Context, reference string, limit int) ([]Order, error)
}
