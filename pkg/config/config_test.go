package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultAPIPort, cfg.API.Port)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultConfDir, cfg.Gateway.ConfDir)
	assert.Equal(t, DefaultWatchDebounce, cfg.Gateway.WatchDebounce)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: DEBUG
  format: json
server:
  port: 9443
  read_timeout: 45s
gateway:
  conf_dir: /opt/ingressd/conf
  descriptor_location: edge.yaml
  watch: true
  watch_debounce: 250ms
api:
  port: 9090
auth:
  secret: "a-signing-secret-at-least-32-chars!!"
  token_duration: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9443, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/opt/ingressd/conf", cfg.Gateway.ConfDir)
	assert.Equal(t, "edge.yaml", cfg.Gateway.DescriptorLocation)
	assert.True(t, cfg.Gateway.Watch)
	assert.Equal(t, 250*time.Millisecond, cfg.Gateway.WatchDebounce)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)

	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultLogOutput, cfg.Logging.Output)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, DefaultAuthIssuer, cfg.Auth.Issuer)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: LOUD
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoad_ShortAuthSecret(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  secret: "too-short"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "logging: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Server.Port = 10443
	cfg.Gateway.DescriptorLocation = "edge.yaml"
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10443, loaded.Server.Port)
	assert.Equal(t, "edge.yaml", loaded.Gateway.DescriptorLocation)
}

func TestGetDefaultConfig_Validates(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, Validate(cfg))
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Telemetry.SampleRate = 0.25
	cfg.Auth.Issuer = "custom-issuer"

	ApplyDefaults(cfg)

	assert.Equal(t, 0.25, cfg.Telemetry.SampleRate)
	assert.Equal(t, "custom-issuer", cfg.Auth.Issuer)
	assert.Equal(t, DefaultTelemetryEndpoint, cfg.Telemetry.Endpoint)
	assert.Equal(t, DefaultProfilingEndpoint, cfg.Telemetry.Profiling.Endpoint)
}
