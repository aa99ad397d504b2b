package ecommerce

import (
	"testing"
	"time"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACVerifier(t *testing.T) {
	payload := []byte(`{"id":820982911946154508,"total_price":"199.00"}`)
	verifier := NewHMACVerifier("hush")
	valid := verifier.Sign(payload)

	tests := []struct {
		name      string
		verifier  *HMACVerifier
		payload   []byte
		signature string
		wantErr   error
	}{
		{"valid signature", verifier, payload, valid, nil},
		{"tampered body", verifier, append([]byte(nil), `{"id":1}`...), valid, integration.ErrInvalidSignature},
		{"wrong secret", NewHMACVerifier("other"), payload, valid, integration.ErrInvalidSignature},
		{"not base64", verifier, payload, "%%%", integration.ErrInvalidSignature},
		{"missing signature", verifier, payload, "  ", integration.ErrMissingSignature},
		{"secret not configured", NewHMACVerifier(""), payload, valid, integration.ErrWebhookSecretMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.verifier.Verify(tt.payload, tt.signature)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHMACVerifier_KnownVector(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	v := NewHMACVerifier("key")
	assert.Equal(t, "97yD9DBThCSxMpjmqm+xQ+9NWaFJRhdZl0edvC0aPNg=", v.Sign([]byte("The quick brown fox jumps over the lazy dog")))
}

func TestOrderParser_ParseOrder(t *testing.T) {
	parser := NewOrderParser()

	t.Run("extracts indexed fields", func(t *testing.T) {
		payload := []byte(`{"id":450789469,"name":"#1001","order_number":1001,"total_price":"409.94",
			"currency":"USD","financial_status":"paid","created_at":"2026-04-05T12:30:00-04:00"}`)

		order, err := parser.ParseOrder(payload)
		require.NoError(t, err)
		assert.Equal(t, "450789469", order.ExternalID)
		assert.Equal(t, "#1001", order.OrderNumber)
		assert.True(t, decimal.RequireFromString("409.94").Equal(order.TotalAmount))
		assert.Equal(t, "USD", order.Currency)
		assert.Equal(t, "paid", order.Status)
		assert.True(t, order.OrderedAt.Equal(time.Date(2026, 4, 5, 16, 30, 0, 0, time.UTC)))
		assert.Equal(t, string(payload), string(order.Raw))
	})

	t.Run("falls back to order_number", func(t *testing.T) {
		order, err := parser.ParseOrder([]byte(`{"id":"gid-7","order_number":1007}`))
		require.NoError(t, err)
		assert.Equal(t, "1007", order.OrderNumber)
		assert.True(t, order.TotalAmount.IsZero())
		assert.True(t, order.OrderedAt.IsZero())
	})

	t.Run("rejects bad payloads", func(t *testing.T) {
		for name, payload := range map[string]string{
			"no id":     `{"name":"#1"}`,
			"empty id":  `{"id":""}`,
			"not json":  `{"id":`,
			"bad total": `{"id":1,"total_price":"lots"}`,
		} {
			_, err := parser.ParseOrder([]byte(payload))
			assert.ErrorIs(t, err, shared.ErrInvalidInput, name)
		}
	})
}
