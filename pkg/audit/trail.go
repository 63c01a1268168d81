package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type trailKey struct{}

// Trail is the per-request audit context. It carries the correlation
// identity and the request-identifying target set during dispatch.
//
// A Trail is created by Auditor.Attach and must never be shared across
// requests. SetTarget may be called from the dispatch path while the
// auditing layer reads it afterwards, so access is synchronized.
type Trail struct {
	correlationID string

	mu     sync.Mutex
	target string
}

// NewTrail creates a trail with a fresh correlation identity.
func NewTrail() *Trail {
	return &Trail{correlationID: uuid.NewString()}
}

// CorrelationID returns the trail's correlation identity.
func (t *Trail) CorrelationID() string {
	return t.correlationID
}

// SetTarget records the request-identifying resource for the audit record.
// The delegate (or its chain) calls this once it has resolved the request.
func (t *Trail) SetTarget(target string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.target = target
	t.mu.Unlock()
}

// Target returns the recorded request-identifying resource, or "" if the
// delegate never set one.
func (t *Trail) Target() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// WithTrail binds a trail to the context.
func WithTrail(ctx context.Context, t *Trail) context.Context {
	return context.WithValue(ctx, trailKey{}, t)
}

// TrailFromContext returns the trail bound to ctx, or nil if none is bound.
func TrailFromContext(ctx context.Context) *Trail {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(trailKey{}).(*Trail)
	return t
}
