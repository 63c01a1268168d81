package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/pkg/api/auth"
	"github.com/marmos91/ingressd/pkg/api/handlers"
	"github.com/marmos91/ingressd/pkg/api/middleware"
	"github.com/marmos91/ingressd/pkg/gateway"
	"github.com/marmos91/ingressd/pkg/metrics"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus scrape endpoint (when metrics are enabled)
//   - GET /gateway/status - Gateway state and active delegate
//   - POST /gateway/reload - Re-bootstrap and hot-swap the delegate (admin)
//
// Gateway control routes require a Bearer token when jwtService is non-nil;
// a nil jwtService leaves them open for trusted-network deployments.
func NewRouter(ingress *gateway.Ingress, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(ingress)
	gatewayHandler := handlers.NewGatewayHandler(ingress)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	if metrics.IsEnabled() {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/gateway", func(r chi.Router) {
		if jwtService != nil {
			r.Use(middleware.JWTAuth(jwtService))
		}
		r.Get("/status", gatewayHandler.Status)

		r.Group(func(r chi.Router) {
			if jwtService != nil {
				r.Use(middleware.RequireAdmin())
			}
			r.Post("/reload", gatewayHandler.Reload)
		})
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimw.GetReqID(r.Context())

		logger.Debug("API request started",
			logger.RequestID(requestID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.ClientIP(r.RemoteAddr),
		)

		// Wrap response writer to capture status code
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("API request completed",
			logger.RequestID(requestID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(ww.Status()),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(logger.Duration(start)),
		)
	})
}
