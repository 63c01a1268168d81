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

func newDispatchIngress(t *testing.T, d Delegate) (*Ingress, *audit.Recorder) {
	t.Helper()
	rec := audit.NewRecorder()
	g := NewIngress(IngressOptions{
		Bootstrapper: newTestBootstrapper(&stubFactory{}),
		Auditor:      rec,
		Delegate:     d,
	})
	if d != nil {
		ctn := newTestContainer(nil, nil, false)
		require.NoError(t, g.InitComponent(NewStaticConfig("gateway", nil, ctn)))
	}
	return g, rec
}

func requireOneRecord(t *testing.T, rec *audit.Recorder) audit.Record {
	t.Helper()
	records := rec.Records()
	require.Len(t, records, 1)
	require.Equal(t, 1, rec.AttachCount())
	require.Equal(t, 1, rec.DetachCount())
	return records[0]
}

func TestDispatch_Success(t *testing.T) {
	d := &stubDelegate{status: http.StatusOK, target: "/a/b"}
	g, rec := newDispatchIngress(t, d)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/a/b?x=1", nil)
	require.NoError(t, g.Service(w, r))

	assert.Equal(t, http.StatusOK, w.Code)

	record := requireOneRecord(t, rec)
	assert.Equal(t, audit.ActionAccess, record.Action)
	assert.Equal(t, "/a/b", record.Target)
	assert.Equal(t, audit.ResourceTypeURI, record.Resource)
	assert.Equal(t, audit.OutcomeSuccess, record.Outcome)
	assert.Equal(t, audit.StatusMessage(http.StatusOK), record.Message)
	assert.NotEmpty(t, record.CorrelationID)
}

func TestDispatch_DefaultsStatusTo200(t *testing.T) {
	// A delegate that writes nothing still audits as a 200.
	g, rec := newDispatchIngress(t, &stubDelegate{})

	w := httptest.NewRecorder()
	require.NoError(t, g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil)))

	record := requireOneRecord(t, rec)
	assert.Equal(t, audit.OutcomeSuccess, record.Outcome)
	assert.Equal(t, audit.StatusMessage(http.StatusOK), record.Message)
}

func TestDispatch_TargetFallsBackToRequestURI(t *testing.T) {
	g, rec := newDispatchIngress(t, &stubDelegate{})

	w := httptest.NewRecorder()
	require.NoError(t, g.Service(w, httptest.NewRequest(http.MethodGet, "/q?x=1", nil)))

	record := requireOneRecord(t, rec)
	assert.Equal(t, "/q?x=1", record.Target)
}

func TestDispatch_NoDelegateUnavailable(t *testing.T) {
	g, rec := newDispatchIngress(t, nil)

	w := httptest.NewRecorder()
	err := g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	record := requireOneRecord(t, rec)
	assert.Equal(t, audit.OutcomeSuccess, record.Outcome)
	assert.Equal(t, audit.StatusMessage(http.StatusServiceUnavailable), record.Message)
}

func TestDispatch_DelegateErrorAuditedAndReturned(t *testing.T) {
	boom := errors.New("upstream exploded")
	g, rec := newDispatchIngress(t, &stubDelegate{dispatchErr: boom})

	w := httptest.NewRecorder()
	err := g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.ErrorIs(t, err, boom)

	// The access event is still audited; the failure travels back as the
	// returned error, not in the record.
	record := requireOneRecord(t, rec)
	assert.Equal(t, audit.OutcomeSuccess, record.Outcome)
	assert.Equal(t, audit.StatusMessage(http.StatusInternalServerError), record.Message)
}

func TestDispatch_AfterDestroyUnavailable(t *testing.T) {
	d := &stubDelegate{status: http.StatusOK}
	g, rec := newDispatchIngress(t, d)
	g.Destroy()

	w := httptest.NewRecorder()
	require.NoError(t, g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil)))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	record := requireOneRecord(t, rec)
	assert.Equal(t, audit.StatusMessage(http.StatusServiceUnavailable), record.Message)
}

func TestDispatch_ChainNextAfterDelegateSuccess(t *testing.T) {
	g, _ := newDispatchIngress(t, &stubDelegate{})

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	require.NoError(t, g.Handle(w, httptest.NewRequest(http.MethodGet, "/x", nil), next))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestDispatch_ChainNextSkippedOnDelegateError(t *testing.T) {
	g, _ := newDispatchIngress(t, &stubDelegate{dispatchErr: errors.New("nope")})

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	w := httptest.NewRecorder()
	err := g.Handle(w, httptest.NewRequest(http.MethodGet, "/x", nil), next)
	require.Error(t, err)
	assert.False(t, nextCalled)
}

func TestDispatch_TrailReachesDelegate(t *testing.T) {
	var seen *audit.Trail
	d := &captureTrailDelegate{capture: func(tr *audit.Trail) { seen = tr }}
	g, rec := newDispatchIngress(t, d)

	w := httptest.NewRecorder()
	require.NoError(t, g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil)))

	require.NotNil(t, seen)
	record := requireOneRecord(t, rec)
	assert.Equal(t, seen.CorrelationID(), record.CorrelationID)
}

type captureTrailDelegate struct {
	stubDelegate
	capture func(*audit.Trail)
}

func (d *captureTrailDelegate) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	d.capture(audit.TrailFromContext(r.Context()))
	return d.stubDelegate.Dispatch(w, r, next)
}

func TestDispatch_EveryOutcomeBalancesAttachDetach(t *testing.T) {
	cases := []struct {
		name     string
		delegate Delegate
	}{
		{"success", &stubDelegate{status: http.StatusOK}},
		{"failure", &stubDelegate{dispatchErr: errors.New("x")}},
		{"no delegate", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, rec := newDispatchIngress(t, tc.delegate)

			for i := 0; i < 5; i++ {
				w := httptest.NewRecorder()
				_ = g.Service(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			}

			assert.Len(t, rec.Records(), 5)
			assert.Equal(t, 5, rec.AttachCount())
			assert.Equal(t, 5, rec.DetachCount())
		})
	}
}
