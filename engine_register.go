package authcore

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"
)

// Register creates an account and logs it straight in, returning the
// first token pair. It requires the configured [AccountProvider] to
// also implement [AccountCreator].
//
// Registration is limited per client IP (from [WithClientIP]), falling
// back to the normalized email when no IP is attached. Unlike login,
// every attempt that clears the gate counts against the window,
// successful ones included.
func (e *Engine) Register(ctx context.Context, email, password, name string) (*TokenPair, error) {
	if e == nil || e.accounts == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	creator, ok := e.accounts.(AccountCreator)
	if !ok {
		return nil, ErrRegistrationUnsupported
	}

	email = normalizeEmail(email)

	identifier := clientIPFromContext(ctx)
	if identifier == "" {
		identifier = email
	}

	if e.registrationLimiter != nil {
		if e.registrationLimiter.IsLimited(ctx, identifier) {
			retryAfter, _ := e.registrationLimiter.TimeUntilReset(ctx, identifier)
			limitErr := &RateLimitError{RetryAfter: retryAfter}

			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, EventLoginRateLimited, false, "", email, limitErr, map[string]string{
				"operation": "register",
			})
			return nil, limitErr
		}
		e.registrationLimiter.Increment(ctx, identifier)
	}

	if err := checkPasswordStrength(password, e.config.Registration.MinPasswordLen); err != nil {
		return nil, err
	}

	existing, err := e.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, salt, err := e.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	acct, err := creator.CreateAccount(ctx, &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Status:       StatusActive,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		return nil, err
	}

	pair, err := e.CreateTokenPair(ctx, acct)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRegistered)
	e.emitAudit(ctx, EventRegistered, true, acct.ID, email, nil, nil)

	return pair, nil
}

// checkPasswordStrength enforces the registration floor: minimum
// length, at least one letter, at least one digit.
func checkPasswordStrength(password string, minLen int) error {
	if len(password) < minLen {
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, minLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: letters and digits required", ErrWeakPassword)
	}

	return nil
}
