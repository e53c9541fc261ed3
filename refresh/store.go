package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is the stable root cause wrapped around every
// Redis transport failure this store observes.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	tokenKeyPrefix   = "refresh_token:"
	accountKeyPrefix = "account_refresh_token:"
)

// Store is the Redis-backed refresh-token association store.
type Store struct {
	redis redis.UniversalClient
}

// NewStore creates a [Store] backed by the given Redis client.
func NewStore(redisClient redis.UniversalClient) *Store {
	return &Store{redis: redisClient}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

func accountKey(accountID string) string {
	return accountKeyPrefix + accountID
}

// Save installs token as the account's current refresh token, writing
// both directions of the mapping with the given TTL in one transaction.
// The account-side key is overwritten, so any previously current token
// stops being discoverable through the account immediately; its own
// token key is left for the caller to delete (best effort).
func (s *Store) Save(ctx context.Context, token, accountID string, ttl time.Duration) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(token), accountID, ttl)
		pipe.Set(ctx, accountKey(accountID), token, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Lookup resolves a refresh token to its account id. A token that is
// unknown or expired returns ("", nil); only transport failures error.
func (s *Store) Lookup(ctx context.Context, token string) (string, error) {
	accountID, err := s.redis.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return accountID, nil
}

// CurrentForAccount returns the account's current refresh token, or
// ("", nil) when none is live.
func (s *Store) CurrentForAccount(ctx context.Context, accountID string) (string, error) {
	token, err := s.redis.Get(ctx, accountKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return token, nil
}

// DeleteToken removes a single token-side mapping. Used for best-effort
// cleanup of a superseded token; deleting a key that is already gone is
// not an error.
func (s *Store) DeleteToken(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes both directions of the mapping. Idempotent.
func (s *Store) Delete(ctx context.Context, token, accountID string) error {
	if err := s.redis.Del(ctx, tokenKey(token), accountKey(accountID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
