package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailCorrelationIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tr := NewTrail()
		require.NotEmpty(t, tr.CorrelationID())
		assert.False(t, seen[tr.CorrelationID()], "duplicate correlation ID")
		seen[tr.CorrelationID()] = true
	}
}

func TestTrailTarget(t *testing.T) {
	tr := NewTrail()
	assert.Equal(t, "", tr.Target())

	tr.SetTarget("/a/b")
	assert.Equal(t, "/a/b", tr.Target())
}

func TestTrailNilSafe(t *testing.T) {
	var tr *Trail
	require.NotPanics(t, func() {
		tr.SetTarget("/x")
	})
	assert.Equal(t, "", tr.Target())
}

func TestTrailContextRoundTrip(t *testing.T) {
	tr := NewTrail()
	ctx := WithTrail(context.Background(), tr)
	assert.Same(t, tr, TrailFromContext(ctx))

	assert.Nil(t, TrailFromContext(context.Background()))
	assert.Nil(t, TrailFromContext(nil))
}

func TestRecorderCapturesRecords(t *testing.T) {
	rec := NewRecorder()
	ctx, tr := rec.Attach(context.Background())
	tr.SetTarget("/a/b")

	rec.Audit(ctx, ActionAccess, tr.Target(), ResourceTypeURI, OutcomeSuccess, StatusMessage(200))
	rec.Detach(ctx)

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ActionAccess, records[0].Action)
	assert.Equal(t, "/a/b", records[0].Target)
	assert.Equal(t, OutcomeSuccess, records[0].Outcome)
	assert.Equal(t, tr.CorrelationID(), records[0].CorrelationID)
	assert.Equal(t, 1, rec.AttachCount())
	assert.Equal(t, 1, rec.DetachCount())
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "response status: 200 OK", StatusMessage(200))
	assert.Equal(t, "response status: 503 Service Unavailable", StatusMessage(503))
	assert.Equal(t, "response status: 599", StatusMessage(599))
}
