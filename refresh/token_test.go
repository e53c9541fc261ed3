package refresh

import (
	"encoding/hex"
	"testing"
)

func TestNewTokenShape(t *testing.T) {
	tok, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	raw, err := hex.DecodeString(tok)
	if err != nil {
		t.Fatalf("expected hex token, got %q: %v", tok, err)
	}
	if len(raw) != 64 {
		t.Fatalf("expected 64 random bytes, got %d", len(raw))
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken failed: %v", err)
		}
		if seen[tok] {
			t.Fatal("duplicate token generated")
		}
		seen[tok] = true
	}
}
