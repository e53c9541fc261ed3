// Package token mints and parses the short-lived signed access tokens
// of the authentication engine.
//
// Access tokens are self-contained HS256 JWTs: signature plus expiry is
// the whole validity story, no store lookup happens on the verify path.
// A token stays usable until natural expiry even after logout; callers
// that need immediate revocation must keep access TTLs short.
//
// Opaque refresh tokens are not this package's concern; see the refresh
// package for their generation and storage.
package token
