// Package credential holds third-party API credentials and bearer tokens
// behind a store that fails closed on expiry.
package credential

import (
	"context"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
)

// Well-known secret keys
const (
	KeyOrderSystemToken    = "order_system.access_token"
	KeyOrderSystemUsername = "order_system.username"
	KeyOrderSystemPassword = "order_system.password"
)

// ErrCredentialUnavailable is returned by Store.Get for missing and expired secrets alike
var ErrCredentialUnavailable = shared.ErrCredentialUnavailable

// Secret is a stored credential value with an optional expiry
type Secret struct {
	Key       string
	Value     string
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the secret has an expiry at or before now
func (s *Secret) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Metadata describes a secret without exposing its value
type Metadata struct {
	Key       string     `json:"key"`
	Present   bool       `json:"present"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Describe builds metadata for a secret; a nil secret is reported absent
func Describe(key string, s *Secret, now time.Time) Metadata {
	if s == nil {
		return Metadata{Key: key}
	}
	updated := s.UpdatedAt
	return Metadata{
		Key:       key,
		Present:   true,
		ExpiresAt: s.ExpiresAt,
		Expired:   s.IsExpired(now),
		UpdatedAt: &updated,
	}
}

// Store reads and writes credentials.
//
// Get returns ErrCredentialUnavailable when the key is absent or expired, so
// callers never need to inspect the expiry themselves.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, expiresAt *time.Time) error
	Describe(ctx context.Context, key string) (Metadata, error)
}
