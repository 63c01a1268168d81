package gateway

import (
	"net/http"
	"sync"

	"github.com/marmos91/ingressd/pkg/audit"
	"github.com/marmos91/ingressd/pkg/descriptor"
)

// stubDelegate records lifecycle calls and plays back a scripted dispatch.
type stubDelegate struct {
	mu          sync.Mutex
	initCfgs    []ComponentConfig
	initErr     error
	dispatchErr error
	destroyed   int

	// scripted dispatch behavior
	status int
	target string
	body   string
}

func (d *stubDelegate) Init(cfg ComponentConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initErr != nil {
		return d.initErr
	}
	d.initCfgs = append(d.initCfgs, cfg)
	return nil
}

func (d *stubDelegate) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	if d.dispatchErr != nil {
		return d.dispatchErr
	}
	if d.target != "" {
		if t := audit.TrailFromContext(r.Context()); t != nil {
			t.SetTarget(d.target)
		}
	}
	if d.status != 0 {
		w.WriteHeader(d.status)
	}
	if d.body != "" {
		_, _ = w.Write([]byte(d.body))
	}
	if next != nil {
		next.ServeHTTP(w, r)
	}
	return nil
}

func (d *stubDelegate) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed++
}

func (d *stubDelegate) initCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.initCfgs)
}

func (d *stubDelegate) destroyCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

// stubFactory builds a fresh stubDelegate per descriptor, or fails.
type stubFactory struct {
	mu       sync.Mutex
	built    []*stubDelegate
	buildErr error
	script   func(*stubDelegate)
}

func (f *stubFactory) Build(d *descriptor.Descriptor) (Delegate, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	sd := &stubDelegate{}
	if f.script != nil {
		f.script(sd)
	}
	f.mu.Lock()
	f.built = append(f.built, sd)
	f.mu.Unlock()
	return sd, nil
}

func (f *stubFactory) lastBuilt() *stubDelegate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.built) == 0 {
		return nil
	}
	return f.built[len(f.built)-1]
}
