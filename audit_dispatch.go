package authcore

import (
	"context"
	"time"

	internalaudit "github.com/madcrowhq/authcore/internal/audit"
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

// emitAudit fills in the envelope fields and hands the event to the
// dispatcher. A nil dispatcher (audit disabled) makes this a no-op.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, accountID, email string, cause error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.now(),
		EventType: eventType,
		AccountID: accountID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) now() time.Time {
	if e != nil && e.nowFunc != nil {
		return e.nowFunc()
	}
	return time.Now()
}
