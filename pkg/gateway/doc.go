// Package gateway implements the ingress adapter at the front of the HTTP
// gateway: a delegate handler bootstrapped from a declarative descriptor,
// held in a hot-swappable registry, and dispatched to under a per-request
// audit scope.
//
// The host container drives the gateway through one of two lifecycle
// contracts. Component is the standalone contract: the container hands the
// gateway its own configuration and routes requests straight to it.
// ChainLink is the chain-participant contract: the gateway sits in the
// container's handler chain and forwards to the next element after its own
// delegate has run. Ingress satisfies both with a single internal state
// machine, so whichever contract the container uses first performs the
// bootstrap exactly once.
//
// The active delegate lives in a DelegateRegistry behind a single atomic
// pointer. Replacement follows a two-step handoff: the incoming delegate is
// fully initialized before it is published, and the outgoing delegate is
// destroyed only after it is no longer visible to new requests. Requests
// never block on a swap; they observe either the old delegate or the new
// one.
package gateway
