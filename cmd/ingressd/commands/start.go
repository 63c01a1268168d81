package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/internal/telemetry"
	"github.com/marmos91/ingressd/pkg/api"
	"github.com/marmos91/ingressd/pkg/api/auth"
	"github.com/marmos91/ingressd/pkg/audit"
	"github.com/marmos91/ingressd/pkg/chain"
	"github.com/marmos91/ingressd/pkg/config"
	"github.com/marmos91/ingressd/pkg/descriptor"
	"github.com/marmos91/ingressd/pkg/gateway"
	"github.com/marmos91/ingressd/pkg/metrics"
	metricsprom "github.com/marmos91/ingressd/pkg/metrics/prometheus"
	"github.com/marmos91/ingressd/pkg/services"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingressd server",
	Long: `Start the ingressd gateway with the specified configuration.

The server runs in the foreground until interrupted, which suits process
supervisors and container deployments.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/ingressd/config.yaml.

Examples:
  # Start the gateway
  ingressd start

  # Start with custom config file
  ingressd start --config /etc/ingressd/config.yaml

  # Start with environment variable overrides
  INGRESSD_LOGGING_LEVEL=DEBUG ingressd start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "ingressd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "ingressd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	// Initialize metrics and the delegate instrumenter (if enabled)
	svcs := services.NewRegistry()
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		if err := svcs.Register(services.MetricsKey, metricsprom.NewInstrumenter()); err != nil {
			return fmt.Errorf("failed to register instrumenter: %w", err)
		}
		logger.Info("Metrics enabled")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Container over the descriptor directory
	ctn := gateway.NewContainer(gateway.ContainerOptions{
		Resources:      os.DirFS(cfg.Gateway.ConfDir),
		Services:       svcs,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	// Gateway ingress: descriptor loader, chain factory, audit sink
	ing := gateway.NewIngress(gateway.IngressOptions{
		Bootstrapper: gateway.NewBootstrapper(
			gateway.LoaderFunc(descriptor.Load),
			chain.NewFactory(chain.DefaultFilterRegistry()),
		),
		Auditor: audit.NewLogAuditor(),
	})
	defer ing.Destroy()

	initCfg := gateway.NewStaticConfig("ingressd", map[string]string{
		gateway.DescriptorLocationParam: cfg.Gateway.DescriptorLocation,
	}, ctn)
	if err := ing.InitComponent(initCfg); err != nil {
		return fmt.Errorf("failed to initialize gateway: %w", err)
	}
	logger.Info("Gateway initialized",
		"state", ing.State().String(),
		"descriptor", descriptorPath(cfg),
		"active_delegate", ing.Delegate() != nil)

	// Control API token service (optional)
	var jwtService *auth.JWTService
	if cfg.Auth.Secret != "" {
		jwtService, err = auth.NewJWTService(auth.JWTConfig{
			Secret:              cfg.Auth.Secret,
			Issuer:              cfg.Auth.Issuer,
			AccessTokenDuration: cfg.Auth.TokenDuration,
		})
		if err != nil {
			return fmt.Errorf("failed to create token service: %w", err)
		}
	} else {
		logger.Warn("control API authentication disabled, no auth secret configured")
	}

	gwServer := gateway.NewServer(cfg.Server, ing)

	var apiServer *api.Server
	if cfg.API.IsEnabled() {
		apiServer = api.NewServer(cfg.API, ing, jwtService)
	}

	// Descriptor hot reload (optional)
	var watcher *gateway.Watcher
	if cfg.Gateway.Watch {
		watcher, err = gateway.NewWatcher(ing, descriptorPath(cfg), cfg.Gateway.WatchDebounce)
		if err != nil {
			return fmt.Errorf("failed to start descriptor watcher: %w", err)
		}
		watcher.Start(ctx)
		logger.Info("Descriptor watch enabled", "path", descriptorPath(cfg))
	}

	// Start servers in background
	serverDone := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serverDone <- gwServer.Start(ctx)
	}()
	if apiServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serverDone <- apiServer.Start(ctx)
		}()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	var runErr error
	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			runErr = err
		}
	}

	cancel()
	if watcher != nil {
		watcher.Stop()
	}
	wg.Wait()

	// Drain remaining shutdown results
	close(serverDone)
	for err := range serverDone {
		if err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// descriptorPath returns the on-disk path of the descriptor the gateway
// resolves first, used for logging and file watching.
func descriptorPath(cfg *config.Config) string {
	loc := cfg.Gateway.DescriptorLocation
	if loc == "" {
		loc = gateway.DefaultDescriptorLocation
	}
	return filepath.Join(cfg.Gateway.ConfDir, strings.TrimPrefix(loc, "/"))
}
