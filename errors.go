package authcore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEngineNotReady is returned when an Engine method is called on a
	// partially constructed engine.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrRateLimited is returned when the login rate limiter blocks an
	// attempt. The concrete error is usually a [RateLimitError] carrying
	// a retry-after hint; match with errors.Is.
	ErrRateLimited = errors.New("too many attempts")

	// ErrInvalidCredentials covers every failure the caller must not be
	// able to tell apart: unknown email, deleted account, account with
	// no password set, and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotVerified is returned for accounts still pending email
	// verification.
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrAccountBanned is returned for banned accounts.
	ErrAccountBanned = errors.New("account banned")

	// ErrAccountClosed is returned for closed accounts.
	ErrAccountClosed = errors.New("account closed")

	// ErrAccountLoginBlocked is returned when the derived can-login
	// check fails for a reason not covered by a more specific status
	// error.
	ErrAccountLoginBlocked = errors.New("account cannot login")

	// ErrInvalidRefreshToken is returned when a refresh token is
	// unknown, already rotated, revoked by logout, or expired. All
	// sub-cases are deliberately indistinguishable.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrEmailTaken is returned by Register for duplicate emails.
	ErrEmailTaken = errors.New("email already registered")

	// ErrWeakPassword is returned by Register when the password fails
	// the strength policy.
	ErrWeakPassword = errors.New("password too weak")

	// ErrRegistrationUnsupported is returned by Register when the
	// configured AccountProvider does not implement [AccountCreator].
	ErrRegistrationUnsupported = errors.New("account creation not supported by provider")

	// ErrStoreUnavailable marks infrastructure failures of the
	// key-value store on fail-closed paths (token issuance, refresh,
	// logout, account lookup). Retryable server fault, never a client
	// error.
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// RateLimitError is the concrete error returned for rate-limited login
// attempts. RetryAfter is zero when the limiter could not compute a
// hint (e.g. emergency lockdown with no recorded attempts).
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("too many attempts, retry in %s", e.RetryAfter.Round(time.Second))
	}
	return "too many attempts"
}

// Unwrap makes errors.Is(err, ErrRateLimited) hold for every
// RateLimitError.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
