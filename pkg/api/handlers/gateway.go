package handlers

import (
	"net/http"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/pkg/gateway"
)

// GatewayHandler exposes gateway status and control endpoints.
type GatewayHandler struct {
	ingress *gateway.Ingress
}

// NewGatewayHandler creates a new gateway control handler.
func NewGatewayHandler(ingress *gateway.Ingress) *GatewayHandler {
	return &GatewayHandler{ingress: ingress}
}

// namer is implemented by delegates that expose a human-readable name.
type namer interface {
	Name() string
}

// Status handles GET /gateway/status.
//
// Reports the lifecycle state, the resolved descriptor location, and the
// active delegate's name when it exposes one.
func (h *GatewayHandler) Status(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"state":      h.ingress.State().String(),
		"descriptor": h.ingress.DescriptorLocation(),
	}

	if d := h.ingress.Delegate(); d != nil {
		data["active_delegate"] = true
		if n, ok := d.(namer); ok {
			data["delegate_name"] = n.Name()
		}
	} else {
		data["active_delegate"] = false
	}

	writeJSON(w, http.StatusOK, okResponse(data))
}

// Reload handles POST /gateway/reload.
//
// Re-runs the descriptor bootstrap and hot-swaps the delegate. In-flight
// requests finish on the delegate they started with.
func (h *GatewayHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ingress.Reload(); err != nil {
		logger.Error("gateway reload via API failed", logger.Err(err))
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]interface{}{
		"reloaded":   true,
		"descriptor": h.ingress.DescriptorLocation(),
	}))
}
