// Package provider defines the interface and implementations for lead data
// providers.
package provider

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// LeadProvider defines the interface for property lead sources.
type LeadProvider interface {
	// Name returns the provider identifier (lowercase).
	Name() string
	// Configured reports whether credentials are present, and which
	// settings are missing when they are not.
	Configured() (bool, []string)
	// FetchLeads pulls property records matching the zipcode and filters.
	// Upstream failures degrade to an empty slice, not an error: one
	// provider being down must not fail a multi-provider pull.
	FetchLeads(ctx context.Context, zipcode string, limit int, filters *model.FilterSpec) ([]model.ProviderLead, error)
}

// Registry manages available lead providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]LeadProvider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]LeadProvider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p LeadProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Get returns a provider by name (case-insensitive), or nil if not found.
func (r *Registry) Get(name string) LeadProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[strings.ToLower(name)]
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered providers in name order.
func (r *Registry) All() []LeadProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]LeadProvider, 0, len(names))
	for _, name := range names {
		out = append(out, r.providers[name])
	}
	return out
}
