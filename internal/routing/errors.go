// ABOUTME: Sentinel errors for classification, registry and dispatch failures
// ABOUTME: Callers match them with errors.Is; causes are wrapped with %w
package routing

import "errors"

// Classification errors. The router recovers from both by falling back;
// they only ever appear as the Cause of a fallback resolution.
var (
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrInvalidSelection          = errors.New("invalid route selection")
)

// Configuration and dispatch errors, surfaced to callers.
var (
	ErrUnknownRoute          = errors.New("unknown route")
	ErrDuplicateRoute        = errors.New("route already registered")
	ErrFallbackNotRegistered = errors.New("fallback route not registered")
	ErrRegistrySealed        = errors.New("channel registry is sealed")
	ErrNotReady              = errors.New("channel registry not ready")
	ErrDeliveryFailed        = errors.New("delivery failed")
	ErrAbandoned             = errors.New("dispatch abandoned")
)
