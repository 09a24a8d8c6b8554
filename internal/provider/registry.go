package provider

import (
	"fmt"

	"veridoc/internal/config"
	"veridoc/internal/port"
)

// Factory is a function that creates a Provider from a provider config.
type Factory func(cfg *config.ProviderConfig, metrics port.MetricsCollector) (port.Provider, error)

// registry of provider factories, populated explicitly via Register at wiring time.
var factories = map[string]Factory{}

// Register registers a provider factory by name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// New creates a Provider from a provider config using the registered factory.
func New(cfg *config.ProviderConfig, metrics port.MetricsCollector) (port.Provider, error) {
	factory, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
	return factory(cfg, metrics)
}

// BuildChain instantiates every configured slot of a provider set and
// assembles the fallback chain for one pipeline phase. The primary slot's
// provider name designates the chain's primary.
func BuildChain(set *config.ProviderSet, metrics port.MetricsCollector) (*Chain, error) {
	slots := set.Slots()
	entries := make([]Entry, 0, len(slots))
	for i := range slots {
		cfg := slots[i]
		p, err := New(&cfg, metrics)
		if err != nil {
			return nil, fmt.Errorf("building provider %q: %w", cfg.Provider, err)
		}
		entries = append(entries, Entry{
			Provider:    p,
			MaxAttempts: cfg.MaxRetryAttempts,
			RetryDelay:  cfg.RetryDelay,
		})
	}
	return NewChain(set.PrimaryName(), entries)
}
