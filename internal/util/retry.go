// ABOUTME: Exponential backoff with jitter for retried OpenAI calls
// ABOUTME: Used by the llm client between classify and generate attempts
package util

import (
	"math/rand/v2"
	"time"
)

// MaxBackoff caps the delay between attempts
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns the wait before retry number attempt (1-based).
// The base delay doubles each attempt, capped at MaxBackoff, with +/-25% jitter.
// A zero or negative base delay means retry immediately.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	half := int64(backoff) / 2
	if half <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}
