package handlers

import (
	"net/http"

	"github.com/marmos91/ingressd/pkg/gateway"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the gateway initialized and able to dispatch?
type HealthHandler struct {
	ingress *gateway.Ingress
}

// NewHealthHandler creates a new health handler.
//
// The ingress parameter may be nil, in which case the readiness probe
// reports unhealthy.
func NewHealthHandler(ingress *gateway.Ingress) *HealthHandler {
	return &HealthHandler{ingress: ingress}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. Designed for Kubernetes
// liveness probes; it succeeds as long as the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "ingressd",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK when the gateway has been initialized and can dispatch
// requests. A gateway without an active delegate is still ready; it answers
// requests with service-unavailable until a descriptor appears.
//
// Returns 503 Service Unavailable before init and after destroy.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ingress == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("gateway not configured"))
		return
	}

	state := h.ingress.State()
	if state != gateway.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("gateway "+state.String()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"state":           state.String(),
		"active_delegate": h.ingress.Delegate() != nil,
	}))
}
