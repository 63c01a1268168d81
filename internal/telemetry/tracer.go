package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for gateway operations.
// These follow OpenTelemetry semantic conventions where applicable.
// Gateway-specific keys use the "gateway." prefix.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrClientPort = "client.port"

	// ========================================================================
	// HTTP attributes
	// ========================================================================
	AttrHTTPMethod = "http.request.method"
	AttrHTTPPath   = "url.path"
	AttrHTTPTarget = "url.full"
	AttrHTTPStatus = "http.response.status_code"

	// ========================================================================
	// Gateway attributes
	// ========================================================================
	AttrCorrelationID = "gateway.correlation_id"
	AttrDelegate      = "gateway.delegate"
	AttrDescriptor    = "gateway.descriptor"
	AttrFilter        = "gateway.filter"
	AttrResource      = "gateway.resource"
	AttrOutcome       = "gateway.outcome"
	AttrState         = "gateway.state"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// Root span for gateway request dispatch
	SpanDispatch = "gateway.dispatch"

	// Lifecycle spans
	SpanBootstrap = "gateway.bootstrap"
	SpanReload    = "gateway.reload"
	SpanSwap      = "gateway.swap"

	// Chain spans
	SpanChainRoute  = "chain.route"
	SpanChainFilter = "chain.filter"
	SpanProxy       = "chain.proxy"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// HTTPMethod returns an attribute for the request method
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPPath returns an attribute for the request path
func HTTPPath(path string) attribute.KeyValue {
	return attribute.String(AttrHTTPPath, path)
}

// HTTPStatus returns an attribute for the response status code
func HTTPStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, status)
}

// CorrelationID returns an attribute for the audit correlation identity
func CorrelationID(id string) attribute.KeyValue {
	return attribute.String(AttrCorrelationID, id)
}

// Delegate returns an attribute for the active delegate name
func Delegate(name string) attribute.KeyValue {
	return attribute.String(AttrDelegate, name)
}

// Descriptor returns an attribute for the descriptor location
func Descriptor(location string) attribute.KeyValue {
	return attribute.String(AttrDescriptor, location)
}

// Filter returns an attribute for a chain filter name
func Filter(name string) attribute.KeyValue {
	return attribute.String(AttrFilter, name)
}

// Resource returns an attribute for a matched resource pattern
func Resource(pattern string) attribute.KeyValue {
	return attribute.String(AttrResource, pattern)
}

// Outcome returns an attribute for the dispatch outcome
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

// State returns an attribute for the gateway lifecycle state
func State(state string) attribute.KeyValue {
	return attribute.String(AttrState, state)
}

// StartDispatchSpan starts the root span for one gateway dispatch.
// The caller must call span.End() when the dispatch completes.
func StartDispatchSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanDispatch,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			HTTPMethod(method),
			HTTPPath(path),
		),
	)
}

// EndDispatchSpan records the final status on a dispatch span and ends it.
func EndDispatchSpan(span trace.Span, status int, outcome string) {
	span.SetAttributes(
		HTTPStatus(status),
		Outcome(outcome),
	)
	span.End()
}

// SpanName builds a span name from a component and operation.
func SpanName(component, operation string) string {
	return fmt.Sprintf("%s.%s", component, operation)
}
