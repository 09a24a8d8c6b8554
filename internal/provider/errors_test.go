package provider_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"veridoc/internal/provider"
)

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, provider.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 30, provider.ParseRetryAfterHeader("30"))
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := provider.NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = provider.NewRateLimitError("openai", errors.New("429"), 7)
	assert.Equal(t, 7*time.Second, err.RetryAfter)
}

func TestErrorUnwrapping(t *testing.T) {
	base := errors.New("root cause")

	assert.ErrorIs(t, provider.NewRateLimitError("openai", base, 1), base)
	assert.ErrorIs(t, provider.NewTransientError("openai", base), base)
	assert.ErrorIs(t, provider.NewBusinessError("openai", "refusal", base), base)
}
