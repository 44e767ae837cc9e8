package translator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or call failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnknownModel indicates the model ID is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrStreamNotReady indicates Completion() was called before Next().
	ErrStreamNotReady = errors.New("stream not ready: call Next() first")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrTokenLimit indicates the prompt plus completion budget exceeds
	// the model's context window. Raised before any network call.
	ErrTokenLimit = errors.New("token limit exceeded")

	// ErrCancelled indicates the run was stopped by a cancellation request.
	// Cancellation is a distinct terminal outcome, not a service failure.
	ErrCancelled = errors.New("cancelled")
)

// ErrorKind classifies stage failures for retry decisions and reporting.
type ErrorKind string

const (
	KindTokenLimit  ErrorKind = "token_limit"
	KindService     ErrorKind = "service"
	KindRateLimited ErrorKind = "rate_limited"
	KindTimeout     ErrorKind = "timeout"
	KindCancelled   ErrorKind = "cancelled"
)

// StageError wraps a failure with the stage it occurred in and how many
// retries were spent before giving up.
type StageError struct {
	Stage   Stage
	Kind    ErrorKind
	Retried int
	Err     error
}

func (e *StageError) Error() string {
	if e.Retried > 0 {
		return fmt.Sprintf("stage %s failed after %d retries (%s): %v", e.Stage, e.Retried, e.Kind, e.Err)
	}
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ServiceError represents a provider-level failure with enough context
// to decide whether a retry is worthwhile.
type ServiceError struct {
	Provider  string // "anthropic", "openai", "gemini"
	Status    int    // HTTP status, 0 when not applicable
	Transient bool
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying.
//
// Transient: rate limits (429), server errors (5xx), network timeouts,
// deadline expiry. Not transient: context cancellation, validation,
// token limits, auth and other 4xx failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrCancelled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *ServiceError
	if errors.As(err, &se) {
		if se.Transient {
			return true
		}
		return se.Status == 429 || se.Status >= 500
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	return false
}
