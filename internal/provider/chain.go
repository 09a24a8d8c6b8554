package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"veridoc/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// Entry pairs a provider with its per-invocation retry policy.
type Entry struct {
	Provider    port.Provider
	MaxAttempts int
	RetryDelay  time.Duration
}

// Outcome is a successful chain invocation, attributed to the provider
// that actually answered.
type Outcome struct {
	RawText  string
	Provider string
	Model    string
}

// Chain invokes the primary provider first, then each remaining
// alternative in registration order until one succeeds. Providers with an
// open rate-limit circuit are skipped until their reset deadline passes.
type Chain struct {
	entries  []Entry
	circuits []*circuitState
	primary  string
}

// NewChain builds a Chain with the named primary moved to the front of the
// order. It fails fast when the primary name matches no registered entry.
func NewChain(primaryName string, entries []Entry) (*Chain, error) {
	idx := -1
	for i, e := range entries {
		if e.Provider.Name() == primaryName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("primary provider %q matches no registered provider", primaryName)
	}

	ordered := make([]Entry, 0, len(entries))
	ordered = append(ordered, entries[idx])
	for i, e := range entries {
		if i != idx {
			ordered = append(ordered, e)
		}
	}

	circuits := make([]*circuitState, len(ordered))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &Chain{entries: ordered, circuits: circuits, primary: primaryName}, nil
}

// Primary returns the name of the chain's primary provider.
func (c *Chain) Primary() string {
	return c.primary
}

// Invoke runs the fallback procedure: primary first, then alternatives in
// order, short-circuiting on the first success. Each individual provider
// invocation retries transient failures per its Entry policy; business
// failures escalate straight to the next provider. If every provider
// fails, the returned error carries the primary's original failure plus a
// note of how many alternatives were also attempted.
func (c *Chain) Invoke(ctx context.Context, input port.InvokeInput) (*Outcome, error) {
	now := time.Now()
	var primaryErr error
	altAttempted := 0
	allRateLimited := true
	var earliestReset time.Time

	for i := range c.entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		e := c.entries[i]
		name := e.Provider.Name()

		if resetAt, open := c.circuits[i].isOpenWithReset(now); open {
			log.Printf("provider.Chain: skipping %s (circuit open until %s)", name, resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			if i == 0 {
				primaryErr = NewRateLimitError(name, fmt.Errorf("circuit open until %s", resetAt.Format(time.RFC3339)), int(time.Until(resetAt).Seconds()))
			} else {
				altAttempted++
			}
			continue
		}

		raw, err := invokeWithRetry(ctx, e, input)
		if err == nil {
			return &Outcome{RawText: raw, Provider: name, Model: e.Provider.Model()}, nil
		}

		log.Printf("provider.Chain: %s failed: %v", name, err)
		if i == 0 {
			primaryErr = err
		} else {
			altAttempted++
		}

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			c.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all providers rate limited"), int(retryAfter.Seconds()))
	}

	if primaryErr == nil {
		// Unreachable unless the chain is empty of failures, kept for safety.
		primaryErr = fmt.Errorf("no provider produced a result")
	}
	return nil, fmt.Errorf("primary provider %s failed: %w (%d alternative(s) also attempted)", c.primary, primaryErr, altAttempted)
}

// invokeWithRetry retries a single provider invocation with a fixed delay,
// only for transient failures. MaxAttempts counts total attempts; zero or
// negative means a single attempt.
func invokeWithRetry(ctx context.Context, e Entry, input port.InvokeInput) (string, error) {
	attempts := e.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.DoWithData(
		func() (string, error) {
			return e.Provider.Invoke(ctx, input)
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(e.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
	)
}
