// Package rate implements a sliding-window rate limiter over Redis
// sorted sets.
//
// # Design
//
// Each identifier owns one sorted set whose members are attempt
// timestamps (seconds since epoch). Checks prune entries older than the
// window with ZREMRANGEBYSCORE, then count what remains with ZCARD.
// Increments ZADD the current timestamp and push the key TTL out to
// twice the window so abandoned identifiers age out of Redis on their
// own.
//
// # Failure policy
//
// The limiter fails OPEN: if Redis is unreachable, IsLimited reports
// false and Increment/Reset become logged no-ops. Login availability is
// worth more than rate-limit enforcement during an outage. Callers that
// need fail-closed behavior (token stores do) must not route through
// this package.
//
// # What this package must NOT do
//
//   - Return infrastructure errors to callers on the check path.
//   - Hold any in-process attempt state; Redis is the only source of
//     truth so multiple instances stay consistent.
package rate
