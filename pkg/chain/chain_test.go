package chain

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRegistry_RegisterAndNew(t *testing.T) {
	r := NewFilterRegistry()
	require.NoError(t, r.Register("noop", func(params map[string]string) (Filter, error) {
		return FilterFunc(func(w http.ResponseWriter, req *http.Request, next Handler) error {
			return next(w, req)
		}), nil
	}))

	f, err := r.New("noop", nil)
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestFilterRegistry_Unknown(t *testing.T) {
	r := NewFilterRegistry()
	_, err := r.New("ghost", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestFilterRegistry_RejectsEmptyNameAndNil(t *testing.T) {
	r := NewFilterRegistry()
	require.Error(t, r.Register("", func(map[string]string) (Filter, error) { return nil, nil }))
	require.Error(t, r.Register("x", nil))
}

func TestDefaultFilterRegistry_BuiltIns(t *testing.T) {
	r := DefaultFilterRegistry()
	assert.Equal(t, []string{"deny", "header", "proxy", "respond"}, r.Names())
}

func TestRespondFilter(t *testing.T) {
	f, err := newRespondFilter(map[string]string{
		"status":       "201",
		"body":         "created",
		"content-type": "text/plain",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, f.Apply(w, httptest.NewRequest(http.MethodGet, "/x", nil), nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
}

func TestRespondFilter_InvalidStatus(t *testing.T) {
	_, err := newRespondFilter(map[string]string{"status": "banana"})
	require.Error(t, err)
}

func TestDenyFilter(t *testing.T) {
	f, err := newDenyFilter(nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, f.Apply(w, httptest.NewRequest(http.MethodGet, "/x", nil), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDenyFilter_RejectsNonErrorStatus(t *testing.T) {
	_, err := newDenyFilter(map[string]string{"status": "200"})
	require.Error(t, err)
}

func TestHeaderFilter_SetsAndContinues(t *testing.T) {
	f, err := newHeaderFilter(map[string]string{"X-Gateway": "ingressd"})
	require.NoError(t, err)

	called := false
	next := Handler(func(w http.ResponseWriter, r *http.Request) error {
		called = true
		return nil
	})

	w := httptest.NewRecorder()
	require.NoError(t, f.Apply(w, httptest.NewRequest(http.MethodGet, "/x", nil), next))

	assert.True(t, called)
	assert.Equal(t, "ingressd", w.Header().Get("X-Gateway"))
}

func TestHeaderFilter_RequiresParams(t *testing.T) {
	_, err := newHeaderFilter(nil)
	require.Error(t, err)
}

func TestProxyFilter_ForwardsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("from upstream " + r.URL.Path))
	}))
	defer upstream.Close()

	f, err := newProxyFilter(map[string]string{"target": upstream.URL})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, f.Apply(w, httptest.NewRequest(http.MethodGet, "/svc/ping", nil), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from upstream /svc/ping", w.Body.String())
}

func TestProxyFilter_StripPrefix(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer upstream.Close()

	f, err := newProxyFilter(map[string]string{
		"target":       upstream.URL,
		"strip-prefix": "/svc",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, f.Apply(w, httptest.NewRequest(http.MethodGet, "/svc/ping", nil), nil))
	assert.Equal(t, "/ping", w.Body.String())
}

func TestProxyFilter_RequiresAbsoluteTarget(t *testing.T) {
	_, err := newProxyFilter(map[string]string{"target": "/relative"})
	require.Error(t, err)

	_, err = newProxyFilter(nil)
	require.Error(t, err)
}

func TestRunChain_OrderAndErrorShortCircuit(t *testing.T) {
	var order []string
	mk := func(name string, fail bool) Filter {
		return FilterFunc(func(w http.ResponseWriter, r *http.Request, next Handler) error {
			order = append(order, name)
			if fail {
				return errors.New(name + " failed")
			}
			return next(w, r)
		})
	}

	t.Run("in order", func(t *testing.T) {
		order = nil
		filters := []Filter{mk("a", false), mk("b", false), mk("c", false)}

		w := httptest.NewRecorder()
		err := runChain(filters, w, httptest.NewRequest(http.MethodGet, "/x", nil), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("error stops the chain", func(t *testing.T) {
		order = nil
		filters := []Filter{mk("a", false), mk("b", true), mk("c", false)}

		w := httptest.NewRecorder()
		err := runChain(filters, w, httptest.NewRequest(http.MethodGet, "/x", nil), nil)
		require.Error(t, err)
		assert.Equal(t, []string{"a", "b"}, order)
	})
}
