// Package audit provides the asynchronous audit-event pipeline used by
// the authentication engine.
//
// Events describe authentication outcomes (login success/failure, rate
// limiting, token refresh, logout, registration) and flow through a
// buffered dispatcher goroutine into a caller-supplied Sink. The
// dispatcher never blocks the login hot path when configured with
// DropIfFull; dropped events are counted, not silently lost.
//
// # What this package must NOT do
//
//   - Perform network I/O itself; sinks own delivery.
//   - Import the root package or any sibling (no cycles).
package audit
