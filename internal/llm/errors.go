package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies a provider failure for the fallback logic.
type FailureKind string

const (
	// KindTimeout covers context deadline and transport-level errors.
	KindTimeout FailureKind = "timeout"

	// KindRateLimited means the provider answered HTTP 429.
	KindRateLimited FailureKind = "rate_limited"

	// KindBadStatus covers any other non-2xx response.
	KindBadStatus FailureKind = "bad_status"

	// KindMalformed means the response body could not be decoded.
	KindMalformed FailureKind = "malformed_response"

	// KindEmpty means the provider answered with no usable text.
	KindEmpty FailureKind = "empty"
)

// ProviderError describes a failed completion request. The pipeline uses
// Kind to decide between an alternate-model retry and tier fallback.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Status   int // HTTP status when applicable, otherwise zero
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is a provider rate limit.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindRateLimited
}

func newProviderError(provider string, kind FailureKind, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Status: status, Err: err}
}
