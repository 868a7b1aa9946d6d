package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrUpstreamEmpty is returned when the model answered with no text.
var ErrUpstreamEmpty = errors.New("upstream returned empty content")

// ErrConfig indicates the invoker cannot run with the current configuration,
// typically a missing API key. It is returned before any network call.
type ErrConfig struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ErrConfig) Error() string {
	msg := fmt.Sprintf("llm config (%s): %s", e.Provider, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrConfig) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// rejected the request.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
