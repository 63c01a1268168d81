package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/ingressd/internal/logger"
)

// ServerConfig holds the data-plane HTTP listener settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"  yaml:"idle_timeout"`
}

func (c *ServerConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8443
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
}

// Server is the data-plane HTTP server. Every request is routed through the
// ingress adapter's audited dispatch path; a dispatch error that produced no
// response bytes is mapped to a bad-gateway response here, at the transport
// edge, so delegates stay free to report errors as values.
type Server struct {
	server       *http.Server
	ingress      *Ingress
	config       ServerConfig
	shutdownOnce sync.Once
}

// NewServer creates a data-plane server over the given ingress. The server
// is created stopped; call Start to begin serving.
func NewServer(config ServerConfig, ing *Ingress) *Server {
	config.applyDefaults()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { serve(ing, w, r) }),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server:  server,
		ingress: ing,
		config:  config,
	}
}

func serve(ing *Ingress, w http.ResponseWriter, r *http.Request) {
	sw := &statusTrackingWriter{ResponseWriter: w}
	if err := ing.Service(sw, r); err != nil && !sw.wrote {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}
}

// statusTrackingWriter records whether any response bytes or headers were
// produced, so the transport fallback never clobbers a partial response.
type statusTrackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (w *statusTrackingWriter) WriteHeader(status int) {
	w.wrote = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusTrackingWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

// Start runs the server and blocks until the context is cancelled or the
// listener fails. Cancellation triggers graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("gateway server listening", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("gateway server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("gateway server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		logger.Info("stopping gateway server")
		err = s.server.Shutdown(ctx)
		if err != nil {
			err = fmt.Errorf("gateway server shutdown: %w", err)
		}
	})
	return err
}
