// Package audit provides the request audit capability for the gateway: a
// per-request trail carrying a correlation identity, and an Auditor that
// records access events against that trail.
//
// Every dispatched request gets exactly one Attach/Detach pair and exactly
// one audit record, regardless of dispatch outcome.
package audit

import (
	"context"
	"fmt"
	"net/http"
)

// Action describes what kind of event is being audited.
type Action string

// ActionAccess records a request passing through the gateway.
const ActionAccess Action = "access"

// Outcome describes the result of the audited action. The gateway records
// every access event as a success; the failure and unavailable values label
// the dispatch result in traces and metrics.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFailure     Outcome = "failure"
	OutcomeUnavailable Outcome = "unavailable"
)

// ResourceType classifies the audited target.
type ResourceType string

// ResourceTypeURI marks the target as a request URI.
const ResourceTypeURI ResourceType = "uri"

// Auditor is the audit capability consumed by the gateway dispatch path.
//
// Attach opens a fresh trail with a new correlation identity and binds it to
// the returned context. Detach tears the trail down; callers must pair every
// Attach with exactly one Detach, on every exit path. Audit emits one record
// against the trail bound to ctx.
//
// Implementations must be safe for concurrent use; trails are strictly
// per-request and never shared.
type Auditor interface {
	Attach(ctx context.Context) (context.Context, *Trail)
	Detach(ctx context.Context)
	Audit(ctx context.Context, action Action, target string, resource ResourceType, outcome Outcome, message string)
}

// StatusMessage returns the human-readable status description used in audit
// records, e.g. "response status: 503 Service Unavailable".
func StatusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("response status: %d %s", status, text)
	}
	return fmt.Sprintf("response status: %d", status)
}
