// Package refresh generates and stores the opaque refresh tokens of
// the authentication engine.
//
// A refresh token is 64 bytes of cryptographic randomness, hex encoded.
// It carries no claims and cannot be decoded; the Redis store is the
// only authority on its validity. Two keys track each live token:
//
//	refresh_token:<token>        -> account id
//	account_refresh_token:<id>   -> current token
//
// Both keys carry the refresh TTL. Writing a new pair for an account
// overwrites the account key, which is what enforces the single
// valid refresh token per account invariant; deleting the superseded
// token key is best-effort cleanup sequenced by the engine.
//
// Unlike the rate limiter, this store fails CLOSED: Redis errors are
// returned to the caller, because issuing a token whose refresh half
// was never persisted would strand the client at first refresh.
package refresh
