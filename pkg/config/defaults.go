package config

import (
	"time"

	"github.com/marmos91/ingressd/pkg/api"
	"github.com/marmos91/ingressd/pkg/gateway"
)

// Default configuration values.
const (
	DefaultLogLevel        = "INFO"
	DefaultLogFormat       = "text"
	DefaultLogOutput       = "stdout"
	DefaultShutdownTimeout = 30 * time.Second

	DefaultServerPort    = 8443
	DefaultAPIPort       = 8080
	DefaultConfDir       = "/etc/ingressd"
	DefaultAuthIssuer    = "ingressd"
	DefaultTokenLife     = 15 * time.Minute
	DefaultWatchDebounce = 500 * time.Millisecond

	DefaultTelemetryEndpoint = "localhost:4317"
	DefaultProfilingEndpoint = "http://localhost:4040"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// This is called after unmarshaling to ensure all fields have sensible values.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyServerDefaults(&cfg.Server)
	applyGatewayDefaults(&cfg.Gateway)
	applyAPIDefaults(&cfg.API)
	applyAuthDefaults(&cfg.Auth)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
	if l.Output == "" {
		l.Output = DefaultLogOutput
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = DefaultTelemetryEndpoint
	}
	if t.SampleRate == 0 {
		t.SampleRate = 1.0
	}
	if t.Profiling.Endpoint == "" {
		t.Profiling.Endpoint = DefaultProfilingEndpoint
	}
	if len(t.Profiling.ProfileTypes) == 0 {
		t.Profiling.ProfileTypes = []string{"cpu", "alloc_objects", "inuse_space"}
	}
}

func applyServerDefaults(s *gateway.ServerConfig) {
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = 120 * time.Second
	}
}

func applyGatewayDefaults(g *GatewayConfig) {
	if g.ConfDir == "" {
		g.ConfDir = DefaultConfDir
	}
	if g.WatchDebounce == 0 {
		g.WatchDebounce = DefaultWatchDebounce
	}
}

func applyAPIDefaults(a *api.APIConfig) {
	if a.Port == 0 {
		a.Port = DefaultAPIPort
	}
	if a.ReadTimeout == 0 {
		a.ReadTimeout = 10 * time.Second
	}
	if a.WriteTimeout == 0 {
		a.WriteTimeout = 10 * time.Second
	}
	if a.IdleTimeout == 0 {
		a.IdleTimeout = 60 * time.Second
	}
}

func applyAuthDefaults(a *AuthConfig) {
	if a.Issuer == "" {
		a.Issuer = DefaultAuthIssuer
	}
	if a.TokenDuration == 0 {
		a.TokenDuration = DefaultTokenLife
	}
}

// GetDefaultConfig returns a configuration with all default values.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
