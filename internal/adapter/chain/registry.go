package chain

import (
	"sort"

	"crypto-settlement-gateway/internal/core/ports"
)

// Registry holds one adapter per supported chain. Dispatch is by chain
// code; adding a chain means registering another adapter, nothing else.
type Registry struct {
	adapters map[string]ports.ChainAdapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]ports.ChainAdapter)}
}

// Register adds an adapter under its chain code.
func (r *Registry) Register(a ports.ChainAdapter) {
	r.adapters[a.Chain()] = a
}

// Get returns the adapter for chain, or nil when unsupported.
func (r *Registry) Get(chain string) ports.ChainAdapter {
	return r.adapters[chain]
}

// Chains lists the registered chain codes, sorted.
func (r *Registry) Chains() []string {
	chains := make([]string, 0, len(r.adapters))
	for code := range r.adapters {
		chains = append(chains, code)
	}
	sort.Strings(chains)
	return chains
}
