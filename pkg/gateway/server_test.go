package gateway

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ingressd/pkg/audit"
)

func TestServe_DelegateResponsePassesThrough(t *testing.T) {
	g, _ := newDispatchIngress(t, &stubDelegate{status: http.StatusCreated, body: "ok"})

	w := httptest.NewRecorder()
	serve(g, w, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestServe_ErrorWithoutResponseMapsToBadGateway(t *testing.T) {
	g, _ := newDispatchIngress(t, &stubDelegate{dispatchErr: errors.New("upstream down")})

	w := httptest.NewRecorder()
	serve(g, w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestServe_ErrorAfterPartialResponseLeavesItAlone(t *testing.T) {
	d := &partialThenFailDelegate{}
	g, _ := newDispatchIngress(t, d)

	w := httptest.NewRecorder()
	serve(g, w, httptest.NewRequest(http.MethodGet, "/x", nil))

	// The delegate already committed a status; the transport fallback
	// must not write a second one.
	assert.Equal(t, http.StatusOK, w.Code)
}

type partialThenFailDelegate struct {
	stubDelegate
}

func (d *partialThenFailDelegate) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	w.WriteHeader(http.StatusOK)
	return errors.New("broke midway")
}

func TestServe_NoDelegateServiceUnavailable(t *testing.T) {
	rec := audit.NewRecorder()
	g := NewIngress(IngressOptions{
		Bootstrapper: newTestBootstrapper(&stubFactory{}),
		Auditor:      rec,
	})

	w := httptest.NewRecorder()
	serve(g, w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Len(t, rec.Records(), 1)
}

func TestServerConfig_Defaults(t *testing.T) {
	var cfg ServerConfig
	cfg.applyDefaults()

	assert.Equal(t, 8443, cfg.Port)
	assert.NotZero(t, cfg.ReadTimeout)
	assert.NotZero(t, cfg.WriteTimeout)
	assert.NotZero(t, cfg.IdleTimeout)
}
