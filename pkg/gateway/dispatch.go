package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/internal/telemetry"
	"github.com/marmos91/ingressd/pkg/audit"
)

// Service handles one request under the standalone-component contract.
func (g *Ingress) Service(w http.ResponseWriter, r *http.Request) error {
	return g.dispatch(w, r, nil)
}

// Handle handles one request under the chain-participant contract. The
// downstream chain is invoked only after the delegate dispatches without
// error.
func (g *Ingress) Handle(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	return g.dispatch(w, r, next)
}

// dispatch is the audited request path shared by both contracts. Every call
// produces exactly one audit record and one matched trail attach/detach
// pair, whatever the outcome: delegate success, delegate failure, or no
// active delegate.
func (g *Ingress) dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	start := time.Now()

	ctx, trail := g.auditor.Attach(r.Context())
	defer g.auditor.Detach(ctx)

	ctx, span := telemetry.StartDispatchSpan(ctx, r.Method, r.URL.Path)
	span.SetAttributes(telemetry.CorrelationID(trail.CorrelationID()))

	r = r.WithContext(ctx)

	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	d := g.registry.Get()
	if d == nil {
		http.Error(ww, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		g.auditor.Audit(ctx, audit.ActionAccess, g.target(trail, r), audit.ResourceTypeURI,
			audit.OutcomeSuccess, audit.StatusMessage(http.StatusServiceUnavailable))
		telemetry.EndDispatchSpan(span, http.StatusServiceUnavailable, string(audit.OutcomeUnavailable))
		logger.WarnCtx(ctx, "no active delegate",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(http.StatusServiceUnavailable))
		return nil
	}

	err := d.Dispatch(ww, r, nil)
	if err != nil {
		status := ww.Status()
		if status == 0 {
			status = http.StatusInternalServerError
		}
		// The audit record observes the access event itself; the delegate
		// failure is logged below and returned, not encoded as the audit
		// outcome.
		g.auditor.Audit(ctx, audit.ActionAccess, g.target(trail, r), audit.ResourceTypeURI,
			audit.OutcomeSuccess, audit.StatusMessage(status))
		telemetry.EndDispatchSpan(span, status, string(audit.OutcomeFailure))
		logger.ErrorCtx(ctx, "delegate dispatch failed",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Err(err),
			logger.DurationMs(logger.Duration(start)))
		return err
	}

	if next != nil {
		next.ServeHTTP(ww, r)
	}

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	g.auditor.Audit(ctx, audit.ActionAccess, g.target(trail, r), audit.ResourceTypeURI,
		audit.OutcomeSuccess, audit.StatusMessage(status))
	telemetry.EndDispatchSpan(span, status, string(audit.OutcomeSuccess))
	logger.DebugCtx(ctx, "request dispatched",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Status(status),
		logger.DurationMs(logger.Duration(start)))
	return nil
}

// target prefers the request-identifying attribute set on the trail during
// dispatch, falling back to the raw request URI.
func (g *Ingress) target(trail *audit.Trail, r *http.Request) string {
	if t := trail.Target(); t != "" {
		return t
	}
	return r.URL.RequestURI()
}
