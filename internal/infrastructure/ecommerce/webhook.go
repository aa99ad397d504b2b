// Package ecommerce verifies and decodes webhooks from the e-commerce platform.
package ecommerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// HMACVerifier checks base64(HMAC-SHA256(secret, body)) signatures
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier. An empty secret rejects everything.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Sign computes the signature the platform would send for payload
func (v *HMACVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify compares the signature in constant time
func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	if len(v.secret) == 0 {
		return integration.ErrWebhookSecretMissing
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return integration.ErrMissingSignature
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return integration.ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return integration.ErrInvalidSignature
	}
	return nil
}

// OrderParser pulls the indexed order fields out of a webhook payload
type OrderParser struct{}

// NewOrderParser creates an OrderParser
func NewOrderParser() *OrderParser {
	return &OrderParser{}
}

// ParseOrder extracts the order. The id is required; every other field is
// best effort and the raw payload is kept whole.
func (OrderParser) ParseOrder(payload []byte) (*integration.EcommerceOrder, error) {
	if !gjson.ValidBytes(payload) {
		return nil, shared.ErrInvalidInput.WithMessage("Webhook payload is not valid JSON")
	}
	doc := gjson.ParseBytes(payload)

	id := doc.Get("id")
	if !id.Exists() || id.String() == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Webhook payload has no order id")
	}

	order := &integration.EcommerceOrder{
		ExternalID:  id.String(),
		OrderNumber: doc.Get("name").String(),
		Currency:    doc.Get("currency").String(),
		Status:      doc.Get("financial_status").String(),
		TotalAmount: decimal.Zero,
		Raw:         json.RawMessage(payload),
	}
	if order.OrderNumber == "" {
		order.OrderNumber = doc.Get("order_number").String()
	}
	if raw := doc.Get("total_price").String(); raw != "" {
		total, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("Webhook payload has an invalid total_price")
		}
		order.TotalAmount = total
	}
	if raw := doc.Get("created_at").String(); raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			order.OrderedAt = at
		}
	}
	return order, nil
}

var (
	_ integration.WebhookVerifier    = (*HMACVerifier)(nil)
	_ integration.OrderPayloadParser = OrderParser{}
)
