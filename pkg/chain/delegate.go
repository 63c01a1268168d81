package chain

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/marmos91/ingressd/pkg/audit"
	"github.com/marmos91/ingressd/pkg/descriptor"
	"github.com/marmos91/ingressd/pkg/gateway"
)

// route is one compiled resource: a pattern and its filter chain.
type route struct {
	pattern string
	filters []Filter
}

// matches reports whether the request path matches the route pattern.
// A pattern ending in "/*" matches the prefix before it and any suffix;
// any other pattern matches exactly.
func (rt *route) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(rt.pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == rt.pattern
}

// Delegate routes requests to the filter chain of the first matching
// resource. It is immutable after construction; hot swaps replace the whole
// delegate rather than mutating one in place.
type Delegate struct {
	name   string
	routes []route
}

// Name returns the descriptor name the delegate was built from.
func (d *Delegate) Name() string {
	return d.name
}

// Init applies the captured gateway configuration. The delegate holds no
// per-init state, so repeated applications are harmless.
func (d *Delegate) Init(cfg gateway.ComponentConfig) error {
	return nil
}

// Dispatch routes the request through the first matching resource's chain.
// The request URI is recorded on the audit trail before routing so that the
// audit record identifies the target even when no resource matches. The
// downstream continuation runs only if every filter passes the request on.
func (d *Delegate) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	if t := audit.TrailFromContext(r.Context()); t != nil {
		t.SetTarget(r.URL.RequestURI())
	}

	for i := range d.routes {
		if d.routes[i].matches(r.URL.Path) {
			return runChain(d.routes[i].filters, w, r, next)
		}
	}

	http.NotFound(w, r)
	return nil
}

// Destroy tears down every filter that holds resources.
func (d *Delegate) Destroy() {
	for _, rt := range d.routes {
		for _, f := range rt.filters {
			if dd, ok := f.(Destroyer); ok {
				dd.Destroy()
			}
		}
	}
}

// runChain folds the filters right to left over the terminal continuation.
func runChain(filters []Filter, w http.ResponseWriter, r *http.Request, next http.Handler) error {
	terminal := Handler(func(w http.ResponseWriter, r *http.Request) error {
		if next != nil {
			next.ServeHTTP(w, r)
		}
		return nil
	})

	h := terminal
	for i := len(filters) - 1; i >= 0; i-- {
		f := filters[i]
		inner := h
		h = func(w http.ResponseWriter, r *http.Request) error {
			return f.Apply(w, r, inner)
		}
	}
	return h(w, r)
}

// Factory builds chain delegates from descriptors, resolving filter names
// through its registry. It implements the gateway's delegate factory
// capability.
type Factory struct {
	registry *FilterRegistry
}

// NewFactory creates a factory over the given filter registry.
func NewFactory(registry *FilterRegistry) *Factory {
	return &Factory{registry: registry}
}

// Build compiles the descriptor into a routing delegate. Unknown filter
// names and invalid filter parameters fail the build; a half-built delegate
// never escapes.
func (f *Factory) Build(desc *descriptor.Descriptor) (gateway.Delegate, error) {
	routes := make([]route, 0, len(desc.Resources))
	for _, res := range desc.Resources {
		filters := make([]Filter, 0, len(res.Filters))
		for _, fd := range res.Filters {
			flt, err := f.registry.New(fd.Name, fd.Params)
			if err != nil {
				return nil, fmt.Errorf("resource %q: %w", res.Pattern, err)
			}
			filters = append(filters, flt)
		}
		routes = append(routes, route{pattern: res.Pattern, filters: filters})
	}

	return &Delegate{name: desc.Name, routes: routes}, nil
}
