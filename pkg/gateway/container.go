package gateway

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/marmos91/ingressd/pkg/services"
)

// Container is the enclosing context shared by both lifecycle contracts: a
// resource lookup surface for descriptor resolution, a named attribute bag,
// the external services registry, and the metrics-enabled flag read at
// bootstrap time.
type Container struct {
	resources      fs.FS
	svcs           *services.Registry
	metricsEnabled bool

	mu    sync.RWMutex
	attrs map[string]any
}

// ContainerOptions configures a Container.
type ContainerOptions struct {
	// Resources is the root for descriptor resource lookup. May be nil,
	// in which case every lookup reports absence.
	Resources fs.FS

	// Services is the external capability registry. May be nil.
	Services *services.Registry

	// MetricsEnabled requests instrumentation of the bootstrapped
	// delegate. Read once, at bootstrap time.
	MetricsEnabled bool
}

// NewContainer creates a container context.
func NewContainer(opts ContainerOptions) *Container {
	return &Container{
		resources:      opts.Resources,
		svcs:           opts.Services,
		metricsEnabled: opts.MetricsEnabled,
		attrs:          make(map[string]any),
	}
}

// OpenResource resolves a logical resource name to a byte stream. Absence is
// reported as an error satisfying errors.Is(err, fs.ErrNotExist); any other
// error is an I/O failure.
func (c *Container) OpenResource(name string) (io.ReadCloser, error) {
	if c == nil || c.resources == nil {
		return nil, fs.ErrNotExist
	}

	name = strings.TrimPrefix(name, "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}

	f, err := c.resources.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	return f, nil
}

// Services returns the external capability registry, or nil.
func (c *Container) Services() *services.Registry {
	if c == nil {
		return nil
	}
	return c.svcs
}

// MetricsEnabled reports whether delegate instrumentation was requested.
func (c *Container) MetricsEnabled() bool {
	return c != nil && c.metricsEnabled
}

// Attribute returns a named container attribute, or nil.
func (c *Container) Attribute(name string) any {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attrs[name]
}

// SetAttribute stores a named container attribute.
func (c *Container) SetAttribute(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[name] = value
}
