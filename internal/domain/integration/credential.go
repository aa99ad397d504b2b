package integration

import "time"

// RefreshResult reports a credential refresh. Verified is false when the new
// token was stored but the smoke test failed.
type RefreshResult struct {
	ExpiresAt    time.Time `json:"expires_at"`
	Lifetime     string    `json:"lifetime"`
	FromUpstream bool      `json:"lifetime_from_upstream"`
	Verified     bool      `json:"verified"`
	VerifyError  string    `json:"verify_error,omitempty"`
}

// TokenLifetime picks the upstream lifetime when positive, else the fallback
func TokenLifetime(upstream, fallback time.Duration) (time.Duration, bool) {
	if upstream > 0 {
		return upstream, true
	}
	if fallback <= 0 {
		fallback = time.Hour
	}
	return fallback, false
}
