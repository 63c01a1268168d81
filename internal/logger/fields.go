package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so gateway logs can
// be aggregated and queried uniformly.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// Request identity
	KeyCorrelationID = "correlation_id" // Audit correlation ID for the request
	KeyRequestID     = "request_id"     // Transport-level request ID
	KeyMethod        = "method"         // HTTP method
	KeyPath          = "path"           // Request path
	KeyTarget        = "target"         // Resolved target resource identifier
	KeyStatus        = "status"         // HTTP response status code
	KeyStatusMsg     = "status_msg"     // Human-readable status description

	// Client identification
	KeyClientIP   = "client_ip"   // Client IP address
	KeyClientPort = "client_port" // Client source port

	// Gateway internals
	KeyDelegate   = "delegate"   // Active delegate handler name
	KeyDescriptor = "descriptor" // Descriptor resource location
	KeyFilter     = "filter"     // Filter name within a chain
	KeyResource   = "resource"   // Matched resource pattern
	KeyState      = "state"      // Gateway lifecycle state

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyOperation  = "operation"   // Sub-operation for multi-step work
)

// Field constructors for type safety.

// TraceID returns a slog.Attr for an OpenTelemetry trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for an OpenTelemetry span ID.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// CorrelationID returns a slog.Attr for an audit correlation ID.
func CorrelationID(id string) slog.Attr {
	return slog.String(KeyCorrelationID, id)
}

// RequestID returns a slog.Attr for a transport-level request ID.
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Method returns a slog.Attr for an HTTP method.
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path returns a slog.Attr for a request path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Target returns a slog.Attr for a resolved target resource identifier.
func Target(t string) slog.Attr {
	return slog.String(KeyTarget, t)
}

// Status returns a slog.Attr for an HTTP response status code.
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// StatusMsg returns a slog.Attr for a human-readable status description.
func StatusMsg(msg string) slog.Attr {
	return slog.String(KeyStatusMsg, msg)
}

// ClientIP returns a slog.Attr for a client IP address.
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Delegate returns a slog.Attr for the active delegate handler name.
func Delegate(name string) slog.Attr {
	return slog.String(KeyDelegate, name)
}

// Descriptor returns a slog.Attr for a descriptor resource location.
func Descriptor(location string) slog.Attr {
	return slog.String(KeyDescriptor, location)
}

// Filter returns a slog.Attr for a filter name within a chain.
func Filter(name string) slog.Attr {
	return slog.String(KeyFilter, name)
}

// Resource returns a slog.Attr for a matched resource pattern.
func Resource(pattern string) slog.Attr {
	return slog.String(KeyResource, pattern)
}

// State returns a slog.Attr for the gateway lifecycle state.
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Duration returns the milliseconds elapsed since start, for use with
// DurationMs.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Operation returns a slog.Attr for a sub-operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}
