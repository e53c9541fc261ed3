package authcore

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Login authenticates an email/password pair and returns a fresh token
// pair. The checks run in a fixed order and the first failing gate
// short-circuits:
//
//  1. rate limiter (before any account lookup, so a blocked attacker
//     learns nothing and costs nothing)
//  2. account lookup
//  3. lifecycle status (pending/banned/closed; deleted accounts are
//     indistinguishable from missing ones)
//  4. password configured
//  5. derived can-login gate
//  6. password verification (the only step that records a failed
//     attempt with the limiter)
//
// On success the limiter window is cleared, last-login metadata is
// recorded best effort, and a token pair is issued. Use [WithClientIP]
// to stamp the caller address into the login record and audit trail.
func (e *Engine) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if e == nil || e.accounts == nil || e.verifier == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)

	// Step 1: rate limit. Nil limiter means limiting is disabled by
	// configuration; every later gate still applies.
	if e.loginLimiter != nil && e.loginLimiter.IsLimited(ctx, email) {
		retryAfter, _ := e.loginLimiter.TimeUntilReset(ctx, email)
		limitErr := &RateLimitError{RetryAfter: retryAfter}

		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, EventLoginRateLimited, false, "", email, limitErr, nil)
		return nil, limitErr
	}

	// Step 2: account lookup. Store failures are retryable server
	// faults, never "invalid credentials".
	acct, err := e.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct == nil {
		return nil, e.failLogin(ctx, email, "", "account_not_found", ErrInvalidCredentials)
	}

	// Step 3: lifecycle status, in fixed order. Deleted accounts must
	// look exactly like missing ones.
	switch acct.Status {
	case StatusPending:
		return nil, e.failLogin(ctx, email, acct.ID, "pending_verification", ErrAccountNotVerified)
	case StatusBanned:
		return nil, e.failLogin(ctx, email, acct.ID, "banned", ErrAccountBanned)
	case StatusClosed:
		return nil, e.failLogin(ctx, email, acct.ID, "closed", ErrAccountClosed)
	}
	if acct.IsDeleted {
		return nil, e.failLogin(ctx, email, acct.ID, "deleted", ErrInvalidCredentials)
	}

	// Step 4: credentials configured at all.
	if !acct.HasPassword() {
		return nil, e.failLogin(ctx, email, acct.ID, "no_password", ErrInvalidCredentials)
	}

	// Step 5: the derived gate, for anything the explicit checks above
	// did not name.
	if !acct.CanLogin() {
		return nil, e.failLogin(ctx, email, acct.ID, "cannot_login", ErrAccountLoginBlocked)
	}

	// Step 6: password verification. A mismatch is the one failure that
	// feeds the limiter.
	if !e.verifier.Verify(password, acct.PasswordHash, acct.PasswordSalt) {
		if e.loginLimiter != nil {
			e.loginLimiter.Increment(ctx, email)
		}
		return nil, e.failLogin(ctx, email, acct.ID, "password_mismatch", ErrInvalidCredentials)
	}

	// Step 7: success. Clear the window, record metadata best effort,
	// issue the pair.
	if e.loginLimiter != nil {
		e.loginLimiter.Reset(ctx, email)
	}
	if err := e.accounts.RecordLogin(ctx, acct.ID, clientIPFromContext(ctx), e.now()); err != nil {
		e.log.Warn("last-login update failed",
			zap.String("account_id", acct.ID),
			zap.Error(err),
		)
	}

	pair, err := e.CreateTokenPair(ctx, acct)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, EventLoginFailure, false, acct.ID, email, err, map[string]string{
			"reason": "token_issuance",
		})
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, EventLoginSuccess, true, acct.ID, email, nil, nil)

	return pair, nil
}

// RemainingLoginAttempts reports how many failed attempts the email has
// left before the limiter blocks it. With limiting disabled the second
// return is false.
func (e *Engine) RemainingLoginAttempts(ctx context.Context, email string) (int, bool) {
	if e == nil || e.loginLimiter == nil {
		return 0, false
	}
	return e.loginLimiter.Remaining(ctx, normalizeEmail(email)), true
}

func (e *Engine) failLogin(ctx context.Context, email, accountID, reason string, cause error) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, EventLoginFailure, false, accountID, email, cause, map[string]string{
		"reason": reason,
	})
	return cause
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
