package audit

import (
	"context"

	"github.com/marmos91/ingressd/internal/logger"
)

// LogAuditor emits audit records as structured log lines through the
// gateway's logger. It is the default Auditor; deployments needing a
// dedicated audit transport supply their own implementation.
type LogAuditor struct{}

// NewLogAuditor creates a log-backed auditor.
func NewLogAuditor() *LogAuditor {
	return &LogAuditor{}
}

// Attach opens a fresh trail and binds it to the returned context.
func (a *LogAuditor) Attach(ctx context.Context) (context.Context, *Trail) {
	t := NewTrail()
	return WithTrail(ctx, t), t
}

// Detach tears the trail down. The trail itself is garbage collected with
// the request; only the pairing discipline matters here.
func (a *LogAuditor) Detach(ctx context.Context) {
	if t := TrailFromContext(ctx); t != nil {
		logger.Debug("audit trail detached", logger.KeyCorrelationID, t.CorrelationID())
	}
}

// Audit emits one audit record for the trail bound to ctx.
func (a *LogAuditor) Audit(ctx context.Context, action Action, target string, resource ResourceType, outcome Outcome, message string) {
	correlationID := ""
	if t := TrailFromContext(ctx); t != nil {
		correlationID = t.CorrelationID()
	}
	logger.Info("audit",
		logger.KeyCorrelationID, correlationID,
		"action", string(action),
		logger.KeyTarget, target,
		"resource_type", string(resource),
		"outcome", string(outcome),
		logger.KeyStatusMsg, message,
	)
}
