package ai

import (
	"errors"
	"net/http"
	"strconv"
)

var (
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrConfiguration indicates no credential is available to call the provider.
	ErrConfiguration = errors.New("completion provider is not configured")

	// ErrProvider matches every ProviderError.
	ErrProvider = errors.New("completion provider failure")

	// ErrEmptyCompletion means the provider answered without usable text.
	ErrEmptyCompletion = errors.New("no response from AI")
)

// ProviderError is an upstream completion failure. StatusCode is 0 when the call never
// got an HTTP response (timeout, connection refused).
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode > 0:
		return "AI service error: " + strconv.Itoa(e.StatusCode)
	case e.Err != nil:
		return "AI service error: " + e.Err.Error()
	default:
		return "AI service error"
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool {
	if target == ErrProvider {
		return true
	}
	return target == ErrQuotaExceeded && e.StatusCode == http.StatusTooManyRequests
}
