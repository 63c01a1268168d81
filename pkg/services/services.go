// Package services holds the gateway's named capability registry. Optional
// collaborators (instrumentation, future audit transports) register here and
// are looked up by well-known key at bootstrap time, so the core never links
// against a concrete implementation.
package services

import (
	"fmt"
	"sync"
)

// Well-known capability keys.
const (
	// MetricsKey names the delegate instrumentation capability.
	MetricsKey = "metrics"
)

// Registry is a thread-safe name-to-capability map.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]any)}
}

// Register adds a named capability. Returns an error if the name is empty,
// the capability is nil, or the name is already taken.
func (r *Registry) Register(name string, svc any) error {
	if name == "" {
		return fmt.Errorf("cannot register service with empty name")
	}
	if svc == nil {
		return fmt.Errorf("cannot register nil service %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %q already registered", name)
	}

	r.services[name] = svc
	return nil
}

// Get retrieves a capability by name. Returns nil if not registered.
func (r *Registry) Get(name string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.services[name]
}

// Names returns all registered capability names.
// The returned slice is a copy and safe to modify.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	return names
}
