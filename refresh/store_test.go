package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestSaveAndLookup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	accountID, err := store.Lookup(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if accountID != "acct-1" {
		t.Fatalf("expected acct-1, got %q", accountID)
	}

	current, err := store.CurrentForAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("CurrentForAccount failed: %v", err)
	}
	if current != "tok-1" {
		t.Fatalf("expected tok-1, got %q", current)
	}
}

func TestLookupUnknownTokenIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t)

	accountID, err := store.Lookup(context.Background(), "never-issued")
	if err != nil {
		t.Fatalf("expected nil error for unknown token, got %v", err)
	}
	if accountID != "" {
		t.Fatalf("expected empty account id, got %q", accountID)
	}
}

func TestCurrentForAccountEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	current, err := store.CurrentForAccount(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("expected nil error with no live token, got %v", err)
	}
	if current != "" {
		t.Fatalf("expected empty token, got %q", current)
	}
}

func TestSaveOverwritesAccountMapping(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "tok-2", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	current, err := store.CurrentForAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("CurrentForAccount failed: %v", err)
	}
	if current != "tok-2" {
		t.Fatalf("expected tok-2 to be current, got %q", current)
	}
}

func TestMappingsExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(time.Hour + time.Second)

	accountID, err := store.Lookup(ctx, "tok-1")
	if err != nil || accountID != "" {
		t.Fatalf("expected expired token to resolve to nothing, got %q, %v", accountID, err)
	}
	current, err := store.CurrentForAccount(ctx, "acct-1")
	if err != nil || current != "" {
		t.Fatalf("expected expired account mapping to be gone, got %q, %v", current, err)
	}
}

func TestDeleteRemovesBothSides(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "tok-1", "acct-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if accountID, _ := store.Lookup(ctx, "tok-1"); accountID != "" {
		t.Fatalf("expected token mapping gone, got %q", accountID)
	}
	if current, _ := store.CurrentForAccount(ctx, "acct-1"); current != "" {
		t.Fatalf("expected account mapping gone, got %q", current)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, "tok-1", "acct-1"); err != nil {
		t.Fatalf("deleting absent mapping must succeed, got %v", err)
	}
	if err := store.DeleteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("deleting absent token key must succeed, got %v", err)
	}
}

func TestDeleteTokenLeavesAccountSide(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.DeleteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}

	if accountID, _ := store.Lookup(ctx, "tok-1"); accountID != "" {
		t.Fatalf("expected token side gone, got %q", accountID)
	}
	current, err := store.CurrentForAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("CurrentForAccount failed: %v", err)
	}
	if current != "tok-1" {
		t.Fatalf("expected account side untouched, got %q", current)
	}
}

func TestStoreSurfacesTransportErrors(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	if err := store.Save(ctx, "tok-1", "acct-1", time.Hour); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from Save, got %v", err)
	}
	if _, err := store.Lookup(ctx, "tok-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from Lookup, got %v", err)
	}
	if _, err := store.CurrentForAccount(ctx, "acct-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from CurrentForAccount, got %v", err)
	}
	if err := store.Delete(ctx, "tok-1", "acct-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from Delete, got %v", err)
	}
}
