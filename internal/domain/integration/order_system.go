package integration

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Upstream errors
// ---------------------------------------------------------------------------

var (
	ErrUpstreamNotConfigured   = errors.New("integration: upstream not configured")
	ErrUpstreamUnavailable     = errors.New("integration: upstream temporarily unavailable")
	ErrUpstreamRequestFailed   = errors.New("integration: upstream request failed")
	ErrUpstreamInvalidResponse = errors.New("integration: invalid upstream response")
	ErrUpstreamAuthFailed      = errors.New("integration: upstream authentication failed")
	ErrInvalidSignature        = errors.New("integration: invalid webhook signature")
	ErrMissingSignature        = errors.New("integration: missing webhook signature")
	ErrWebhookSecretMissing    = errors.New("integration: webhook secret not configured")
)

// ---------------------------------------------------------------------------
// Order system records
// ---------------------------------------------------------------------------

// ExternalOrder is an order as returned by the order system
type ExternalOrder struct {
	OrderNumber string
	TotalAmount decimal.Decimal
	Currency    string
	Status      string
	OrderedAt   time.Time
	Raw         json.RawMessage
	// Problem is set when the record could not be decoded; sync reports it
	// as a failure for this row
	Problem string
}

// ExternalInventoryItem is a stock reading as returned by the order system
type ExternalInventoryItem struct {
	SKU      string
	Name     string
	Stock    int
	MinStock int
	Raw      json.RawMessage
	Problem  string
}

// PageRequest asks for one page of a listing
type PageRequest struct {
	Page     int
	PageSize int
}

// OrderPage is one page of orders
type OrderPage struct {
	Items   []ExternalOrder
	HasMore bool
}

// InventoryPage is one page of inventory items
type InventoryPage struct {
	Items   []ExternalInventoryItem
	HasMore bool
}

// LoginResult is the bearer token returned by a login. ExpiresIn is zero
// when the upstream did not state a lifetime.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// OrderSystemClient is the third-party order system's REST API
type OrderSystemClient interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	FetchOrders(ctx context.Context, token string, page PageRequest) (*OrderPage, error)
	FetchInventory(ctx context.Context, token string, page PageRequest) (*InventoryPage, error)
	// Ping performs a cheap authenticated call to confirm the token works
	Ping(ctx context.Context, token string) error
}
