package ai

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu        sync.RWMutex
	providers = make(map[string]registration)
)

// ProviderFactory creates a provider for an API key and model. An empty model
// selects the provider default.
type ProviderFactory func(apiKey, model string) (Provider, error)

type registration struct {
	factory      ProviderFactory
	defaultModel string
}

// Register adds a provider factory to the registry.
func Register(name, defaultModel string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = registration{factory: factory, defaultModel: defaultModel}
}

// GetProvider returns a configured provider by name.
func GetProvider(name, apiKey, model string) (Provider, error) {
	mu.RLock()
	reg, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", name, ListProviders())
	}
	return reg.factory(apiKey, model)
}

// DefaultModel returns the registered default model for a provider.
func DefaultModel(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	return providers[name].defaultModel
}

// IsRegistered reports whether a provider name is known.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := providers[name]
	return ok
}

// ListProviders returns all registered provider names, sorted.
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
