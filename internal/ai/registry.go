package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Registry maps provider names to providers. Model strings may carry a
// "provider:" prefix to pick a non-default provider, e.g. "ollama:llama3:8b".
type Registry struct {
	def       string
	providers map[string]Provider
}

// NewRegistry makes a registry with def as the default provider name.
func NewRegistry(def string, providers map[string]Provider) (*Registry, error) {
	m := make(map[string]Provider, len(providers))
	for name, p := range providers {
		if p != nil {
			m[strings.ToLower(name)] = p
		}
	}
	def = strings.ToLower(def)
	if _, ok := m[def]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownProvider, def)
	}
	return &Registry{def: def, providers: m}, nil
}

// Get returns the provider by name, empty name means default.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.def
	}
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Resolve picks the provider for a model string and returns the model name
// to pass to it.
func (r *Registry) Resolve(model string) (name string, p Provider, bare string) {
	if prefix, rest, ok := strings.Cut(model, ":"); ok {
		if p, found := r.providers[strings.ToLower(prefix)]; found {
			return strings.ToLower(prefix), p, rest
		}
	}
	return r.def, r.providers[r.def], model
}

// Default returns the default provider name.
func (r *Registry) Default() string { return r.def }

// Names lists registered provider names, sorted.
func (r *Registry) Names() []string {
	names := lo.Keys(r.providers)
	sort.Strings(names)
	return names
}
