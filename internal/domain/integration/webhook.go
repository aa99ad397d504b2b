package integration

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// WebhookTopic is the event name sent in the e-commerce platform's topic header
type WebhookTopic string

const (
	TopicOrderCreate    WebhookTopic = "orders/create"
	TopicOrderUpdated   WebhookTopic = "orders/updated"
	TopicOrderPaid      WebhookTopic = "orders/paid"
	TopicOrderCancelled WebhookTopic = "orders/cancelled"
	TopicOrderFulfilled WebhookTopic = "orders/fulfilled"
)

// IsOrderEvent reports whether the topic carries an order payload we store
func (t WebhookTopic) IsOrderEvent() bool {
	switch t {
	case TopicOrderCreate, TopicOrderUpdated, TopicOrderPaid, TopicOrderCancelled, TopicOrderFulfilled:
		return true
	}
	return false
}

// IsCreate reports whether the topic announces a new order
func (t WebhookTopic) IsCreate() bool {
	return t == TopicOrderCreate
}

// EcommerceOrder is the subset of an e-commerce order payload we index.
// The full payload is kept in Raw.
type EcommerceOrder struct {
	ExternalID  string
	OrderNumber string
	TotalAmount decimal.Decimal
	Currency    string
	Status      string
	OrderedAt   time.Time
	Raw         json.RawMessage
}

// WebhookVerifier checks a signature over a raw webhook body
type WebhookVerifier interface {
	Verify(payload []byte, signature string) error
}

// OrderPayloadParser extracts an order from a raw webhook body
type OrderPayloadParser interface {
	ParseOrder(payload []byte) (*EcommerceOrder, error)
}
