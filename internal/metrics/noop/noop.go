// Package noop provides a metrics collector that discards everything.
package noop

import "time"

// Collector implements port.MetricsCollector and records nothing.
type Collector struct{}

// ObserveInvocation discards the observation.
func (Collector) ObserveInvocation(provider, model string, success bool, elapsed time.Duration) {}
