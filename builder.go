package authcore

import (
	"errors"
	"time"

	"github.com/madcrowhq/authcore/password"
	"github.com/madcrowhq/authcore/rate"
	"github.com/madcrowhq/authcore/refresh"
	"github.com/madcrowhq/authcore/token"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles an [Engine]. Collect dependencies with the With
// methods, then call Build exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	accounts AccountProvider
	verifier PasswordVerifier
	hasher   PasswordHasher
	sink     AuditSink
	log      *zap.Logger
	clock    func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the rate-limit windows and
// the refresh-token store. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAccounts sets the account lookup collaborator. Required.
func (b *Builder) WithAccounts(provider AccountProvider) *Builder {
	b.accounts = provider
	return b
}

// WithPasswordVerifier overrides the credential checker. Defaults to
// the legacy salted-SHA-256 scheme from the password subpackage.
func (b *Builder) WithPasswordVerifier(v PasswordVerifier) *Builder {
	b.verifier = v
	return b
}

// WithPasswordHasher overrides the hasher Register uses for new
// credentials. Defaults to the same scheme as the default verifier.
func (b *Builder) WithPasswordHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink sets the destination for audit events. Without a sink,
// events are dropped by a no-op sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithLogger sets the structured logger for fail-open warnings and
// best-effort cleanup failures. Defaults to a nop logger.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// WithClock overrides the engine's time source. Intended for tests and
// deterministic simulations; production engines keep time.Now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration, wires the limiter, token manager,
// and refresh store, and returns a ready [Engine].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.accounts == nil {
		return nil, errors.New("account provider required")
	}

	log := b.log
	if log == nil {
		log = zap.NewNop()
	}
	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	verifier := b.verifier
	if verifier == nil {
		verifier = password.SaltedSHA256{}
	}
	hasher := b.hasher
	if hasher == nil {
		hasher = password.SaltedSHA256{}
	}

	tm, err := token.NewManager(token.Config{
		Secret:    cloneBytes(cfg.Token.SigningSecret),
		AccessTTL: cfg.Token.AccessTTL,
		Issuer:    cfg.Token.Issuer,
		Leeway:    cfg.Token.Leeway,
		Now:       clock,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		accounts:     b.accounts,
		verifier:     verifier,
		hasher:       hasher,
		tokens:       tm,
		refreshStore: refresh.NewStore(b.redis),
		audit:        newAuditDispatcher(cfg.Audit, b.sink),
		metrics:      NewMetrics(cfg.Metrics),
		log:          log,
		nowFunc:      clock,
	}

	onFailOpen := func() {
		engine.metricInc(MetricLimiterFailOpen)
	}
	if cfg.RateLimit.Enabled {
		engine.loginLimiter = rate.New(b.redis, rate.Config{
			Prefix:      cfg.RateLimit.Prefix,
			MaxAttempts: cfg.RateLimit.MaxAttempts,
			Window:      cfg.RateLimit.Window,
			Now:         clock,
			Logger:      log.Named("rate"),
			OnFailOpen:  onFailOpen,
		})
	}
	if cfg.Registration.Enabled {
		engine.registrationLimiter = rate.New(b.redis, rate.Config{
			Prefix:      cfg.Registration.Prefix,
			MaxAttempts: cfg.Registration.MaxAttempts,
			Window:      cfg.Registration.Window,
			Now:         clock,
			Logger:      log.Named("rate"),
			OnFailOpen:  onFailOpen,
		})
	}

	b.built = true

	return engine, nil
}
