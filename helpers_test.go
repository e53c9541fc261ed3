package authcore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/madcrowhq/authcore/password"
	"github.com/redis/go-redis/v9"
)

var testSigningSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedLogin struct {
	accountID string
	ip        string
	at        time.Time
}

// mockAccounts is an in-memory AccountProvider + AccountCreator with
// injectable failures and call counters.
type mockAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*Account
	byID    map[string]*Account

	getByEmailErr  error
	getByIDErr     error
	recordLoginErr error
	createErr      error

	getByEmailCalls int
	createCalls     int
	logins          []recordedLogin
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		byEmail: map[string]*Account{},
		byID:    map[string]*Account{},
	}
}

func (m *mockAccounts) put(acct *Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[acct.Email] = acct
	m.byID[acct.ID] = acct
}

func (m *mockAccounts) GetByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByEmailCalls++
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	acct, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *acct
	return &copied, nil
}

func (m *mockAccounts) GetByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	acct, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *acct
	return &copied, nil
}

func (m *mockAccounts) RecordLogin(_ context.Context, accountID, ip string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordLoginErr != nil {
		return m.recordLoginErr
	}
	m.logins = append(m.logins, recordedLogin{accountID: accountID, ip: ip, at: at})
	return nil
}

func (m *mockAccounts) CreateAccount(_ context.Context, acct *Account) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.byEmail[acct.Email]; exists {
		return nil, ErrEmailTaken
	}
	copied := *acct
	m.byEmail[copied.Email] = &copied
	m.byID[copied.ID] = &copied
	out := copied
	return &out, nil
}

// lookupOnlyAccounts delegates lookups but deliberately does not
// implement AccountCreator, for exercising providers that cannot
// register.
type lookupOnlyAccounts struct {
	inner *mockAccounts
}

func (l lookupOnlyAccounts) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return l.inner.GetByEmail(ctx, email)
}

func (l lookupOnlyAccounts) GetByID(ctx context.Context, id string) (*Account, error) {
	return l.inner.GetByID(ctx, id)
}

func (l lookupOnlyAccounts) RecordLogin(ctx context.Context, accountID, ip string, at time.Time) error {
	return l.inner.RecordLogin(ctx, accountID, ip, at)
}

var _ AccountProvider = (*mockAccounts)(nil)
var _ AccountCreator = (*mockAccounts)(nil)

type testEnv struct {
	engine   *Engine
	accounts *mockAccounts
	redis    *miniredis.Miniredis
	clock    *fakeClock
	sink     *ChannelSink
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = testSigningSecret
	cfg.RateLimit.MaxAttempts = 3
	cfg.RateLimit.Window = 300 * time.Second
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	accounts := newMockAccounts()
	clock := newFakeClock()
	sink := NewChannelSink(64)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithAccounts(accounts).
		WithAuditSink(sink).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{
		engine:   engine,
		accounts: accounts,
		redis:    mr,
		clock:    clock,
		sink:     sink,
	}
}

// seedAccount hashes the password with the default scheme and registers
// the account with the mock provider.
func (env *testEnv) seedAccount(t *testing.T, email, plaintext string, status AccountStatus) *Account {
	t.Helper()

	hash, salt, err := password.SaltedSHA256{}.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	acct := &Account{
		ID:           fmt.Sprintf("acct-%d", len(env.accounts.byID)+1),
		Email:        email,
		Name:         "Test Account",
		Status:       status,
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	env.accounts.put(acct)
	return acct
}

// waitAuditEvent drains the sink until an event of the wanted type
// arrives or the deadline passes.
func (env *testEnv) waitAuditEvent(t *testing.T, eventType string) AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-env.sink.Events():
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for audit event %q", eventType)
		}
	}
}
