package authcore

import (
	"io"

	internalaudit "github.com/madcrowhq/authcore/internal/audit"
)

// Audit event names emitted by the engine.
const (
	EventLoginSuccess     = "login_success"
	EventLoginFailure     = "login_failure"
	EventLoginRateLimited = "login_rate_limited"
	EventTokenRefreshed   = "token_refreshed"
	EventRefreshRejected  = "refresh_rejected"
	EventLogout           = "logout"
	EventRegistered       = "account_registered"
)

// AuditEvent is the event payload delivered to an [AuditSink].
type AuditEvent = internalaudit.Event

// AuditSink receives audit events emitted by the engine.
type AuditSink = internalaudit.Sink

// NoOpSink drops every audit event.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink delivers audit events through a buffered channel.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON-encoded event per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink returns a [ChannelSink] with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
