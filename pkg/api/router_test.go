package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ingressd/pkg/api/auth"
	"github.com/marmos91/ingressd/pkg/audit"
	"github.com/marmos91/ingressd/pkg/chain"
	"github.com/marmos91/ingressd/pkg/descriptor"
	"github.com/marmos91/ingressd/pkg/gateway"
)

const routerDescriptor = `
name: edge
resources:
  - pattern: /*
    filters:
      - name: respond
`

func newTestGateway(t *testing.T, init bool) *gateway.Ingress {
	t.Helper()

	ctn := gateway.NewContainer(gateway.ContainerOptions{
		Resources: fstest.MapFS{
			"gateway.yaml": &fstest.MapFile{Data: []byte(routerDescriptor)},
		},
	})
	ing := gateway.NewIngress(gateway.IngressOptions{
		Bootstrapper: gateway.NewBootstrapper(
			gateway.LoaderFunc(descriptor.Load),
			chain.NewFactory(chain.DefaultFilterRegistry()),
		),
		Auditor: audit.NewRecorder(),
	})
	if init {
		require.NoError(t, ing.InitComponent(gateway.NewStaticConfig("gateway", nil, ctn)))
	}
	return ing
}

func TestRouter_Liveness(t *testing.T) {
	router := NewRouter(newTestGateway(t, true), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_ReadinessBeforeInit(t *testing.T) {
	router := NewRouter(newTestGateway(t, false), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_ReadinessAfterInit(t *testing.T) {
	router := NewRouter(newTestGateway(t, true), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_StatusWithoutAuth(t *testing.T) {
	// A nil JWT service leaves the control routes open.
	router := NewRouter(newTestGateway(t, true), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gateway/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
	assert.Contains(t, w.Body.String(), "edge")
}

func TestRouter_ReloadWithoutAuth(t *testing.T) {
	router := NewRouter(newTestGateway(t, true), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gateway/reload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reloaded")
}

func TestRouter_ReloadBeforeInitConflicts(t *testing.T) {
	router := NewRouter(newTestGateway(t, false), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gateway/reload", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_AuthenticatedControlRoutes(t *testing.T) {
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "test-secret-which-is-32-chars-min!",
	})
	require.NoError(t, err)

	router := NewRouter(newTestGateway(t, true), svc)

	adminToken, err := svc.GenerateAccessToken("ops", "admin")
	require.NoError(t, err)
	operatorToken, err := svc.GenerateAccessToken("viewer", "operator")
	require.NoError(t, err)

	t.Run("status without token is 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gateway/status", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("status with token is 200", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/gateway/status", nil)
		r.Header.Set("Authorization", "Bearer "+operatorToken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reload requires admin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/gateway/reload", nil)
		r.Header.Set("Authorization", "Bearer "+operatorToken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("reload with admin token is 200", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/gateway/reload", nil)
		r.Header.Set("Authorization", "Bearer "+adminToken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/gateway/status", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouter_RootRedirectsToHealth(t *testing.T) {
	router := NewRouter(newTestGateway(t, true), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/health", w.Header().Get("Location"))
}

func TestAPIConfig_Defaults(t *testing.T) {
	var cfg APIConfig
	cfg.applyDefaults()

	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, 8080, cfg.Port)
	assert.NotZero(t, cfg.ReadTimeout)

	disabled := false
	cfg.Enabled = &disabled
	assert.False(t, cfg.IsEnabled())
}
