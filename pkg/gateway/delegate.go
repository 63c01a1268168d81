package gateway

import "net/http"

// Delegate is the pluggable unit that implements the gateway's actual
// request handling. The core treats it as opaque beyond this contract.
//
// Init is called before the delegate becomes visible to requests, and again
// whenever the hosting container re-applies configuration. Dispatch handles
// one request; next carries the container's downstream chain and may be nil.
// Destroy is called exactly once, after the delegate is no longer visible to
// new requests; a delegate may still see a tail Dispatch racing Destroy and
// must not fault on it.
type Delegate interface {
	Init(cfg ComponentConfig) error
	Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error
	Destroy()
}

// Instrumenter wraps a delegate with an instrumentation-collecting variant
// of the same contract. Wrap may return nil to decline; the caller then
// keeps the unwrapped delegate.
type Instrumenter interface {
	Wrap(d Delegate) Delegate
}

// Component is the standalone-component lifecycle contract. The container
// initializes the component once, routes requests to Service, and destroys
// it on shutdown.
type Component interface {
	InitComponent(cfg ComponentConfig) error
	Service(w http.ResponseWriter, r *http.Request) error
	Destroy()
}

// ChainLink is the chain-participant lifecycle contract. The container
// initializes the link once, passes requests through Handle with the next
// element of its chain, and destroys it on shutdown.
type ChainLink interface {
	InitLink(cfg ChainConfig) error
	Handle(w http.ResponseWriter, r *http.Request, next http.Handler) error
	Destroy()
}
