package authcore

import (
	"errors"
	"fmt"
	"time"

	"github.com/madcrowhq/authcore/token"
)

// Config carries every tunable of the engine. Start from
// [DefaultConfig] and override; a zero Config fails validation.
//
// Config instances are set during initialization and treated as
// immutable afterwards.
type Config struct {
	Token        TokenConfig
	RateLimit    RateLimitConfig
	Registration RegistrationConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

// TokenConfig covers access-token signing and refresh-token lifetime.
type TokenConfig struct {
	// SigningSecret is the HS256 key. Required, at least 32 bytes.
	SigningSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Issuer, when set, is stamped into and required from every access
	// token.
	Issuer string

	// Leeway is the clock-skew allowance for verification, capped at
	// two minutes.
	Leeway time.Duration
}

// RateLimitConfig covers the login attempt limiter.
//
// MaxAttempts == 0 is the emergency lockdown switch: every login
// attempt is rejected, including ones with correct credentials,
// because the limiter gate runs before password verification. This is
// intentional kill-switch behavior; disable the limiter with Enabled
// instead if the intent is "no limiting".
type RateLimitConfig struct {
	Enabled     bool
	Prefix      string
	MaxAttempts int
	Window      time.Duration
}

// RegistrationConfig covers self-service account creation.
type RegistrationConfig struct {
	Enabled     bool
	Prefix      string
	MaxAttempts int
	Window      time.Duration

	// MinPasswordLen is the strength floor; passwords must also carry
	// at least one letter and one digit.
	MinPasswordLen int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the documented defaults: 60-minute access
// tokens, 30-day refresh tokens, 5 login attempts per 15 minutes,
// 3 registrations per hour. The signing secret is left empty and must
// be supplied before Build.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  60 * time.Minute,
			RefreshTTL: 30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			Prefix:      "login_attempts",
			MaxAttempts: 5,
			Window:      900 * time.Second,
		},
		Registration: RegistrationConfig{
			Enabled:        true,
			Prefix:         "registration_attempts",
			MaxAttempts:    3,
			Window:         time.Hour,
			MinPasswordLen: 8,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.Token.SigningSecret) < token.MinSecretLen {
		return fmt.Errorf("Token.SigningSecret must be at least %d bytes", token.MinSecretLen)
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token.AccessTTL must be positive")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token.RefreshTTL must be positive")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token.Leeway must be between 0 and 2 minutes")
	}
	if c.RateLimit.MaxAttempts < 0 {
		return errors.New("RateLimit.MaxAttempts must not be negative")
	}
	if c.RateLimit.Enabled && c.RateLimit.Window <= 0 {
		return errors.New("RateLimit.Window must be positive")
	}
	if c.Registration.Enabled {
		if c.Registration.MaxAttempts < 0 {
			return errors.New("Registration.MaxAttempts must not be negative")
		}
		if c.Registration.Window <= 0 {
			return errors.New("Registration.Window must be positive")
		}
		if c.Registration.MinPasswordLen < 8 {
			return errors.New("Registration.MinPasswordLen must be at least 8")
		}
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningSecret = cloneBytes(cfg.Token.SigningSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
