package authcore

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by [ConfigFromEnv].
const (
	EnvSigningSecret         = "SIGNING_SECRET"
	EnvAccessTokenTTLMinutes = "ACCESS_TOKEN_TTL_MINUTES"
	EnvRefreshTokenTTLDays   = "REFRESH_TOKEN_TTL_DAYS"
	EnvRateLimitMaxAttempts  = "RATE_LIMIT_MAX_ATTEMPTS"
	EnvRateLimitWindowSecs   = "RATE_LIMIT_WINDOW_SECONDS"
	EnvRateLimitEnabled      = "RATE_LIMIT_ENABLED"
)

// ConfigFromEnv builds a [Config] from [DefaultConfig] plus the
// recognized environment variables. A .env file in the working
// directory is loaded first, best effort, so local development matches
// deployed behavior. SIGNING_SECRET is the only required variable;
// everything else falls back to the defaults.
//
// The returned config has not been validated; Build does that.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	secret := os.Getenv(EnvSigningSecret)
	if secret == "" {
		return Config{}, fmt.Errorf("%s is required", EnvSigningSecret)
	}
	cfg.Token.SigningSecret = []byte(secret)

	if v := os.Getenv(EnvAccessTokenTTLMinutes); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvAccessTokenTTLMinutes, v)
		}
		cfg.Token.AccessTTL = time.Duration(minutes) * time.Minute
	}

	if v := os.Getenv(EnvRefreshTokenTTLDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvRefreshTokenTTLDays, v)
		}
		cfg.Token.RefreshTTL = time.Duration(days) * 24 * time.Hour
	}

	if v := os.Getenv(EnvRateLimitMaxAttempts); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil || attempts < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvRateLimitMaxAttempts, v)
		}
		// 0 is accepted: emergency lockdown, see RateLimitConfig.
		cfg.RateLimit.MaxAttempts = attempts
	}

	if v := os.Getenv(EnvRateLimitWindowSecs); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvRateLimitWindowSecs, v)
		}
		cfg.RateLimit.Window = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv(EnvRateLimitEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvRateLimitEnabled, v)
		}
		cfg.RateLimit.Enabled = enabled
	}

	return cfg, nil
}
