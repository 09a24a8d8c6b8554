package port

import "time"

// MetricsCollector records per-provider invocation outcomes. Implementations
// are injected into each provider handle so the pipeline carries no shared
// mutable counters of its own.
type MetricsCollector interface {
	ObserveInvocation(provider, model string, success bool, elapsed time.Duration)
}
