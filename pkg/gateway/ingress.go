package gateway

import (
	"sync"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/pkg/audit"
)

// IngressState tracks the lifecycle of an Ingress.
type IngressState int

const (
	StateUninitialized IngressState = iota
	StateReady
	StateDestroyed
)

func (s IngressState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Ingress is the gateway's ingress adapter. It satisfies both hosting
// contracts, Component and ChainLink, over one shared delegate: whichever
// contract the container invokes first performs the bootstrap, and a later
// init under either contract re-applies configuration to the delegate that
// already exists instead of building a second one.
type Ingress struct {
	bootstrapper *Bootstrapper
	auditor      audit.Auditor
	registry     *DelegateRegistry

	mu       sync.Mutex
	state    IngressState
	location string
}

// IngressOptions configures an Ingress.
type IngressOptions struct {
	// Bootstrapper builds the delegate from a descriptor. Required unless
	// a Delegate is supplied and init is never expected to bootstrap.
	Bootstrapper *Bootstrapper

	// Auditor records one access event per dispatched request. Required.
	Auditor audit.Auditor

	// Delegate optionally pre-installs a handler before init runs. Init
	// then applies configuration to it rather than bootstrapping a new one.
	Delegate Delegate
}

// NewIngress creates an ingress adapter in the uninitialized state.
func NewIngress(opts IngressOptions) *Ingress {
	g := &Ingress{
		bootstrapper: opts.Bootstrapper,
		auditor:      opts.Auditor,
		registry:     NewDelegateRegistry(),
	}
	if opts.Delegate != nil {
		// No configuration captured yet, so this publishes without
		// initializing; init will apply configuration later.
		_ = g.registry.Replace(opts.Delegate)
	}
	return g
}

// InitComponent initializes the ingress under the standalone-component
// contract.
func (g *Ingress) InitComponent(cfg ComponentConfig) error {
	return g.init(cfg)
}

// InitLink initializes the ingress under the chain-participant contract.
func (g *Ingress) InitLink(cfg ChainConfig) error {
	return g.init(BridgeChainConfig(cfg))
}

// init captures the configuration, then either re-applies it to the existing
// delegate or performs the one-time bootstrap. Safe to call more than once
// under either contract; only the first successful call constructs a
// delegate.
func (g *Ingress) init(cfg ComponentConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateDestroyed {
		return ErrTornDown
	}

	if err := g.registry.RecordConfig(cfg); err != nil {
		return err
	}

	if g.registry.Get() != nil {
		if err := g.registry.Reinit(); err != nil {
			return err
		}
		// A later init under the other contract may carry its own
		// location; later reloads must follow it.
		if loc := cfg.InitParam(DescriptorLocationParam); loc != "" {
			g.location = loc
		}
		g.state = StateReady
		logger.Debug("gateway configuration re-applied",
			logger.Delegate(cfg.ComponentName()))
		return nil
	}

	g.location = cfg.InitParam(DescriptorLocationParam)

	d, err := g.bootstrapper.ResolveAndBuild(g.location, cfg.Container())
	if err != nil {
		return err
	}
	if d != nil {
		if err := g.registry.Replace(d); err != nil {
			return &BootstrapError{Stage: StageInit, Location: g.location, Err: err}
		}
	}

	g.state = StateReady
	logger.Info("gateway initialized",
		logger.State(g.state.String()),
		logger.Descriptor(g.location))
	return nil
}

// SetDelegate swaps in a replacement delegate. The replacement is
// initialized with the captured configuration before it becomes visible,
// and the previous delegate is destroyed after the swap.
func (g *Ingress) SetDelegate(d Delegate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateDestroyed {
		return ErrTornDown
	}
	return g.registry.Replace(d)
}

// Reload re-runs the bootstrap from the configuration captured at init and
// swaps in the resulting delegate. A descriptor that has disappeared leaves
// the current delegate in place.
func (g *Ingress) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateDestroyed {
		return ErrTornDown
	}

	cfg, ok := g.registry.Config()
	if !ok {
		return ErrNotInitialized
	}

	d, err := g.bootstrapper.ResolveAndBuild(g.location, cfg.Container())
	if err != nil {
		return err
	}
	if d == nil {
		logger.Warn("reload found no descriptor, keeping current delegate",
			logger.Descriptor(g.location))
		return nil
	}

	if err := g.registry.Replace(d); err != nil {
		return err
	}
	logger.Info("gateway delegate reloaded", logger.Descriptor(g.location))
	return nil
}

// Destroy tears the ingress down. The active delegate, if any, is destroyed
// and cleared; later dispatches report unavailability and later inits fail.
// Safe to call before init and more than once.
func (g *Ingress) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateDestroyed {
		return
	}
	g.state = StateDestroyed
	g.registry.Teardown()
	logger.Info("gateway destroyed", logger.State(g.state.String()))
}

// State returns the current lifecycle state.
func (g *Ingress) State() IngressState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Delegate returns the currently installed delegate, or nil.
func (g *Ingress) Delegate() Delegate {
	return g.registry.Get()
}

// DescriptorLocation returns the descriptor location captured at init.
func (g *Ingress) DescriptorLocation() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.location
}
