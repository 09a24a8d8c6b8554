package provider

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// TransientError indicates a failure worth retrying on the same provider:
// a timeout, a transport error, or a 5xx response.
type TransientError struct {
	Err      error
	Provider string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as retryable for the named provider.
func NewTransientError(provider string, err error) *TransientError {
	return &TransientError{Err: err, Provider: provider}
}

// BusinessError indicates the provider answered but its answer is unusable:
// a refusal, a truncated response, an empty completion, or a non-retryable
// 4xx. Business errors escalate straight to the next provider in the
// fallback chain and are never retried on the same provider.
type BusinessError struct {
	Err      error
	Provider string
	Reason   string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s business failure (%s): %v", e.Provider, e.Reason, e.Err)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError wraps err as a non-retryable provider-side failure.
func NewBusinessError(provider, reason string, err error) *BusinessError {
	return &BusinessError{Err: err, Provider: provider, Reason: reason}
}

// IsTransient reports whether err is eligible for same-provider retry.
// Rate limiting is deliberately excluded: a 429 opens the provider's
// circuit and escalates to the fallback chain instead of hammering the
// same endpoint.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
