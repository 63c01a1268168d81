package audit

import (
	"context"
	"sync"
)

// Record is one audit event captured by a Recorder.
type Record struct {
	CorrelationID string
	Action        Action
	Target        string
	Resource      ResourceType
	Outcome       Outcome
	Message       string
}

// Recorder is an Auditor that captures records and attach/detach counts in
// memory. It backs the dispatch tests; production deployments use LogAuditor
// or an external implementation.
type Recorder struct {
	mu       sync.Mutex
	records  []Record
	attached int
	detached int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Attach(ctx context.Context) (context.Context, *Trail) {
	r.mu.Lock()
	r.attached++
	r.mu.Unlock()
	t := NewTrail()
	return WithTrail(ctx, t), t
}

func (r *Recorder) Detach(ctx context.Context) {
	r.mu.Lock()
	r.detached++
	r.mu.Unlock()
}

func (r *Recorder) Audit(ctx context.Context, action Action, target string, resource ResourceType, outcome Outcome, message string) {
	correlationID := ""
	if t := TrailFromContext(ctx); t != nil {
		correlationID = t.CorrelationID()
	}
	r.mu.Lock()
	r.records = append(r.records, Record{
		CorrelationID: correlationID,
		Action:        action,
		Target:        target,
		Resource:      resource,
		Outcome:       outcome,
		Message:       message,
	})
	r.mu.Unlock()
}

// Records returns a copy of the captured records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// AttachCount returns how many trails were attached.
func (r *Recorder) AttachCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

// DetachCount returns how many trails were detached.
func (r *Recorder) DetachCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detached
}
