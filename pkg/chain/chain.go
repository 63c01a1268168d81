// Package chain provides the descriptor-driven delegate: a router that maps
// request patterns to ordered filter chains, built from a declarative
// descriptor by the Factory.
package chain

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Handler is the error-returning continuation passed down a filter chain.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Filter is one element of a resource's chain. Apply either terminates the
// request itself or calls next to continue down the chain; errors propagate
// back up to the dispatching gateway.
type Filter interface {
	Apply(w http.ResponseWriter, r *http.Request, next Handler) error
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(w http.ResponseWriter, r *http.Request, next Handler) error

func (f FilterFunc) Apply(w http.ResponseWriter, r *http.Request, next Handler) error {
	return f(w, r, next)
}

// Destroyer is implemented by filters holding resources that need teardown
// when their delegate is destroyed.
type Destroyer interface {
	Destroy()
}

// Constructor builds a filter from its descriptor parameters.
type Constructor func(params map[string]string) (Filter, error)

// FilterRegistry maps filter names to constructors.
type FilterRegistry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewFilterRegistry creates an empty filter registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{constructors: make(map[string]Constructor)}
}

// Register adds a named filter constructor. Re-registering a name replaces
// the previous constructor.
func (r *FilterRegistry) Register(name string, c Constructor) error {
	if name == "" {
		return fmt.Errorf("cannot register filter with empty name")
	}
	if c == nil {
		return fmt.Errorf("cannot register nil constructor for filter %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = c
	return nil
}

// New constructs the named filter with the given parameters.
func (r *FilterRegistry) New(name string, params map[string]string) (Filter, error) {
	r.mu.RLock()
	c, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	return c(params)
}

// Names returns the registered filter names, sorted.
func (r *FilterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
