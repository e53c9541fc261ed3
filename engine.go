package authcore

import (
	"time"

	internalaudit "github.com/madcrowhq/authcore/internal/audit"
	"github.com/madcrowhq/authcore/rate"
	"github.com/madcrowhq/authcore/refresh"
	"github.com/madcrowhq/authcore/token"
	"go.uber.org/zap"
)

// Engine is the authentication orchestrator: it sequences the rate
// limiter, account lookup, password verification, and token issuance
// for login, and owns refresh rotation and logout.
//
// Engines are built once through [Builder.Build] and are safe for
// concurrent use afterwards. There is no package-level instance; every
// dependency is held by the value.
type Engine struct {
	config   Config
	accounts AccountProvider
	verifier PasswordVerifier
	hasher   PasswordHasher

	loginLimiter        *rate.Limiter
	registrationLimiter *rate.Limiter
	tokens              *token.Manager
	refreshStore        *refresh.Store
	audit               *internalaudit.Dispatcher
	metrics             *Metrics

	log     *zap.Logger
	nowFunc func() time.Time
}

// Close drains and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}
