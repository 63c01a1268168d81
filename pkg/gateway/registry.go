package gateway

import (
	"sync"
	"sync/atomic"
)

// delegateSlot is the published unit; a pointer swap replaces the delegate
// for all subsequent readers in one step.
type delegateSlot struct {
	d Delegate
}

// DelegateRegistry owns the hot-swappable delegate. Reads are a single
// atomic load on the request path; all mutations (replace, config capture,
// teardown) are serialized behind a mutex.
//
// Replacement follows a strict handoff: the incoming delegate is initialized
// with the captured configuration before it becomes visible, then published,
// and only then is the previous delegate destroyed. A reader therefore
// always observes either the fully initialized old delegate or the fully
// initialized new one, never a partially initialized or destroyed one.
type DelegateRegistry struct {
	slot atomic.Pointer[delegateSlot]

	mu       sync.Mutex
	cfg      ComponentConfig
	captured bool
	torn     bool
}

// NewDelegateRegistry creates an empty registry.
func NewDelegateRegistry() *DelegateRegistry {
	return &DelegateRegistry{}
}

// Get returns the current delegate, or nil when none is installed. It is
// safe for concurrent use and performs no locking.
func (reg *DelegateRegistry) Get() Delegate {
	s := reg.slot.Load()
	if s == nil {
		return nil
	}
	return s.d
}

// RecordConfig captures the configuration applied to delegates installed
// from now on. Re-recording is allowed and simply replaces the captured
// value.
func (reg *DelegateRegistry) RecordConfig(cfg ComponentConfig) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.torn {
		return ErrTornDown
	}
	reg.cfg = cfg
	reg.captured = true
	return nil
}

// Config returns the captured configuration, if any.
func (reg *DelegateRegistry) Config() (ComponentConfig, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.cfg, reg.captured
}

// Replace installs d as the current delegate. When a configuration has been
// captured, d is initialized with it before publication; an initialization
// failure aborts the swap and leaves the previous delegate in place. The
// previous delegate, if any, is destroyed after publication, and only when
// a configuration had been captured for it.
func (reg *DelegateRegistry) Replace(d Delegate) error {
	if d == nil {
		return ErrNilDelegate
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.torn {
		return ErrTornDown
	}

	if reg.captured {
		if err := d.Init(reg.cfg); err != nil {
			return err
		}
	}

	prev := reg.slot.Swap(&delegateSlot{d: d})

	if prev != nil && prev.d != nil && reg.captured {
		prev.d.Destroy()
	}
	return nil
}

// Reinit re-applies the captured configuration to the installed delegate
// without replacing it. It is a no-op when no delegate is installed.
func (reg *DelegateRegistry) Reinit() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.torn {
		return ErrTornDown
	}
	if !reg.captured {
		return ErrNotInitialized
	}

	s := reg.slot.Load()
	if s == nil || s.d == nil {
		return nil
	}
	return s.d.Init(reg.cfg)
}

// Teardown destroys the installed delegate, clears the slot, and marks the
// registry permanently torn down. Later calls are no-ops.
func (reg *DelegateRegistry) Teardown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.torn {
		return
	}
	reg.torn = true
	reg.cfg = nil

	// Unlike Replace, destroy here is unconditional: even a delegate that
	// was published before any configuration was recorded must be released.
	prev := reg.slot.Swap(nil)
	if prev != nil && prev.d != nil {
		prev.d.Destroy()
	}
}

// TornDown reports whether the registry has been permanently destroyed.
func (reg *DelegateRegistry) TornDown() bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.torn
}
