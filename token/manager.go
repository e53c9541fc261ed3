package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// KindAccess is the token_kind claim value carried by access tokens.
const KindAccess = "access"

// MinSecretLen is the minimum accepted HMAC secret length in bytes.
const MinSecretLen = 32

// ErrKindMismatch is returned by ParseAccess when a structurally valid
// token carries the wrong token_kind claim.
var ErrKindMismatch = errors.New("token kind mismatch")

// Config holds the signing material and claim policy for a [Manager].
//
// Config instances are set once at construction and treated as
// immutable afterwards.
type Config struct {
	// Secret is the HS256 signing key. Must be at least MinSecretLen
	// bytes.
	Secret []byte

	// AccessTTL bounds the lifetime of every minted access token.
	AccessTTL time.Duration

	// Issuer, when set, is stamped into and required from every token.
	Issuer string

	// Leeway is the clock-skew allowance applied during parsing.
	// At most two minutes.
	Leeway time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Identity is the account material stamped into an access token.
type Identity struct {
	ID      string
	Email   string
	Name    string
	IsAdmin bool
}

// AccessClaims is the decoded claim set of an access token. Subject is
// the account id and ID (jti) is unique per issuance.
type AccessClaims struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	TokenKind string `json:"token_kind"`
	jwt.RegisteredClaims
}

// Manager mints and parses access tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid access TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{config: cfg}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}

// CreateAccess mints a signed access token for the identity. Expiry is
// always issued-at plus the configured TTL.
func (m *Manager) CreateAccess(id Identity) (string, error) {
	now := m.config.Now()

	claims := AccessClaims{
		Email:     id.Email,
		Name:      id.Name,
		IsAdmin:   id.IsAdmin,
		TokenKind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// ParseAccess verifies the signature and registered claims of an access
// token and returns its claim set. Any structural defect, a foreign
// signing algorithm, an expired token, or a token_kind other than
// "access" is an error; callers wanting the nil-on-invalid contract
// wrap this (see Engine.VerifyAccessToken in the root package).
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenKind != KindAccess {
		return nil, ErrKindMismatch
	}

	return claims, nil
}
