// Package authcore provides the authentication core of the madcrow
// backend: JWT access tokens, rotating opaque refresh tokens persisted
// in Redis, sliding-window login rate limiting, and the account-state
// machine that gates login.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. All shared mutable state
// (rate-limit windows, refresh-token mappings) lives in Redis, never in
// process memory, so horizontally scaled instances stay consistent.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder],
// [Config], sentinel errors, and value types ([Account], [TokenPair],
// [AuditEvent]). Account persistence and password hashing policy are
// collaborator ports ([AccountProvider], [PasswordVerifier]) supplied
// by the host application; HTTP routing, schemas, and middleware are
// out of scope entirely.
//
// # Failure policy
//
// The rate limiter fails open (an unreachable Redis never locks users
// out), while the refresh-token store fails closed (token issuance
// without a persisted refresh mapping is an error). Both policies are
// fixed at the call sites, not inferred from exception flow.
package authcore
