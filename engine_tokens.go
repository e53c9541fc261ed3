package authcore

import (
	"context"
	"fmt"

	"github.com/madcrowhq/authcore/refresh"
	"github.com/madcrowhq/authcore/token"
	"go.uber.org/zap"
)

// CreateTokenPair mints an access token and installs a fresh refresh
// token as the account's current one. Persisting the NEW refresh
// mapping is mandatory — a store failure fails the whole call — while
// deleting the superseded token's own key is two-phase best effort:
// the overwritten account-side mapping is the correctness guarantee,
// the trailing delete only reclaims the stale key early.
func (e *Engine) CreateTokenPair(ctx context.Context, acct *Account) (*TokenPair, error) {
	if e == nil || e.tokens == nil || e.refreshStore == nil {
		return nil, ErrEngineNotReady
	}
	if acct == nil || acct.ID == "" {
		return nil, fmt.Errorf("account with id required")
	}

	access, err := e.tokens.CreateAccess(token.Identity{
		ID:      acct.ID,
		Email:   acct.Email,
		Name:    acct.Name,
		IsAdmin: acct.IsAdmin,
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := refresh.NewToken()
	if err != nil {
		return nil, err
	}

	// Read the token being superseded before overwriting the
	// account-side key. Best effort: a failed read only costs the
	// early cleanup below.
	prior, err := e.refreshStore.CurrentForAccount(ctx, acct.ID)
	if err != nil {
		e.log.Warn("prior refresh token read failed, skipping cleanup",
			zap.String("account_id", acct.ID),
			zap.Error(err),
		)
		prior = ""
	}

	if err := e.refreshStore.Save(ctx, refreshToken, acct.ID, e.config.Token.RefreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if prior != "" && prior != refreshToken {
		if err := e.refreshStore.DeleteToken(ctx, prior); err != nil {
			e.log.Warn("superseded refresh token delete failed",
				zap.String("account_id", acct.ID),
				zap.Error(err),
			)
		}
	}

	e.metricInc(MetricTokenIssued)

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(e.config.Token.AccessTTL.Seconds()),
		RefreshExpiresIn: int64(e.config.Token.RefreshTTL.Seconds()),
	}, nil
}

// RefreshTokenPair exchanges a refresh token for a brand-new pair,
// consuming it: the presented token's mappings are removed before the
// replacement is installed, so a second exchange of the same token
// always fails with [ErrInvalidRefreshToken]. Unknown, expired,
// logged-out, and account-no-longer-eligible tokens are rejected
// identically.
func (e *Engine) RefreshTokenPair(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil || e.accounts == nil || e.refreshStore == nil {
		return nil, ErrEngineNotReady
	}
	if refreshToken == "" {
		return nil, e.rejectRefresh(ctx, "", "empty_token")
	}

	accountID, err := e.refreshStore.Lookup(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if accountID == "" {
		return nil, e.rejectRefresh(ctx, "", "unknown_token")
	}

	acct, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct == nil || !acct.CanLogin() {
		// The account vanished or lost login eligibility since the
		// token was minted. Burn the mapping so the token cannot be
		// retried against a recovered account.
		if err := e.refreshStore.Delete(ctx, refreshToken, accountID); err != nil {
			e.log.Warn("stale refresh token delete failed",
				zap.String("account_id", accountID),
				zap.Error(err),
			)
		}
		return nil, e.rejectRefresh(ctx, accountID, "account_ineligible")
	}

	// Single-use rotation: retire the presented token before the new
	// one exists. A crash between the two calls costs the client a
	// re-login, never a replayable token.
	if err := e.refreshStore.Delete(ctx, refreshToken, accountID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	pair, err := e.CreateTokenPair(ctx, acct)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricTokenRefreshed)
	e.emitAudit(ctx, EventTokenRefreshed, true, acct.ID, acct.Email, nil, nil)

	return pair, nil
}

// Logout revokes the account's current refresh token. Idempotent: a
// second call, or a logout with no live token, succeeds as a no-op.
// Outstanding access tokens stay valid until natural expiry — they are
// stateless by design, which is why access TTLs are short.
func (e *Engine) Logout(ctx context.Context, accountID string) error {
	if e == nil || e.refreshStore == nil {
		return ErrEngineNotReady
	}
	if accountID == "" {
		return nil
	}

	current, err := e.refreshStore.CurrentForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if current == "" {
		return nil
	}

	if err := e.refreshStore.Delete(ctx, current, accountID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, EventLogout, true, accountID, "", nil, nil)

	return nil
}

// VerifyAccessToken verifies signature, expiry, and token kind, and
// returns the decoded claims. Every failure mode — malformed token,
// wrong signature, wrong kind, expired — yields nil; callers must not
// be able to distinguish them. No store is consulted.
func (e *Engine) VerifyAccessToken(tokenStr string) *token.AccessClaims {
	if e == nil || e.tokens == nil {
		return nil
	}

	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil
	}
	return claims
}

// AccountIDFromToken extracts the subject of a valid access token, or
// "" when the token does not verify.
func (e *Engine) AccountIDFromToken(tokenStr string) string {
	claims := e.VerifyAccessToken(tokenStr)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

func (e *Engine) rejectRefresh(ctx context.Context, accountID, reason string) error {
	e.metricInc(MetricRefreshRejected)
	e.emitAudit(ctx, EventRefreshRejected, false, accountID, "", ErrInvalidRefreshToken, map[string]string{
		"reason": reason,
	})
	return ErrInvalidRefreshToken
}
