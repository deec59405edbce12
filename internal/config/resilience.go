package config

import (
	"time"

	"discogs_import/internal/retry"
)

// ResilienceConfig groups the knobs for talking to the Discogs API. Per-row
// search and submission calls are deliberately not retried; only the startup
// identity check gets a retry budget.
type ResilienceConfig struct {
	IdentityCheck retry.Config

	// Discogs allows 60 requests/minute for authenticated clients. When the
	// remaining budget reported by the API drops below the threshold, the
	// client pauses before its next call.
	RateLimitThreshold int
	RateLimitPause     time.Duration
}

var DefaultResilienceConfig = ResilienceConfig{
	IdentityCheck: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   15 * time.Second,
		Timeout:    10 * time.Second,
	},
	RateLimitThreshold: 5,
	RateLimitPause:     60 * time.Second,
}
