package authcore

import (
	"context"
	"time"
)

// AccountStatus is the lifecycle state of an account, owned by the host
// application's persistence layer and read-only from this package.
type AccountStatus string

const (
	// StatusPending marks an account awaiting email verification.
	StatusPending AccountStatus = "pending"
	// StatusActive marks a normal, login-capable account.
	StatusActive AccountStatus = "active"
	// StatusBanned marks an account locked out by an operator.
	StatusBanned AccountStatus = "banned"
	// StatusClosed marks an account closed at the owner's request.
	StatusClosed AccountStatus = "closed"
)

// Account is the read model the engine needs from the host's account
// store. PasswordHash/PasswordSalt stay in whatever format the
// configured [PasswordVerifier] understands.
type Account struct {
	ID           string
	Email        string
	Name         string
	IsAdmin      bool
	Status       AccountStatus
	IsDeleted    bool
	PasswordHash string
	PasswordSalt string
}

// HasPassword reports whether the account has credentials configured.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != "" && a.PasswordSalt != ""
}

// CanLogin is the derived login gate: active, not deleted, password
// set.
func (a *Account) CanLogin() bool {
	return a != nil && a.Status == StatusActive && !a.IsDeleted && a.HasPassword()
}

// AccountProvider is the collaborator port for account lookup. Both
// getters return (nil, nil) when no account matches, so "not found"
// stays distinguishable from an infrastructure failure.
type AccountProvider interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)

	// RecordLogin persists last-login metadata after a successful
	// authentication. Failures are logged by the engine, not surfaced;
	// a login must not fail because bookkeeping did.
	RecordLogin(ctx context.Context, accountID, ip string, at time.Time) error
}

// AccountCreator is the optional extension of [AccountProvider] that
// enables [Engine.Register]. CreateAccount must reject duplicate
// emails with [ErrEmailTaken].
type AccountCreator interface {
	CreateAccount(ctx context.Context, account *Account) (*Account, error)
}

// PasswordVerifier is the collaborator port for credential checking.
// Implementations must verify in constant effort relative to the
// stored material; see the password subpackage for two ready schemes.
type PasswordVerifier interface {
	Verify(plaintext, hash, salt string) bool
}

// PasswordHasher is the optional companion of [PasswordVerifier] used
// by [Engine.Register] to hash new credentials.
type PasswordHasher interface {
	Hash(plaintext string) (hash, salt string, err error)
}

// TokenPair is the issued credential bundle. ExpiresIn and
// RefreshExpiresIn are whole seconds, ready for an OAuth-style
// response body.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}
