package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const saltSize = 32

// ErrBadSalt is returned when a stored salt fails base64 decoding.
var ErrBadSalt = errors.New("malformed password salt")

func newSalt() (string, error) {
	var raw [saltSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw[:]), nil
}

// SaltedSHA256 is the legacy scheme: hex(SHA-256(password || salt))
// with a base64-encoded 32-byte salt.
type SaltedSHA256 struct{}

// Hash derives a fresh salt and returns (hash, salt).
func (SaltedSHA256) Hash(plaintext string) (string, string, error) {
	salt, err := newSalt()
	if err != nil {
		return "", "", err
	}

	hash, err := saltedDigest(plaintext, salt)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

// Verify reports whether plaintext matches the stored hash+salt.
// Malformed inputs verify as false, never as an error; a corrupt
// record must behave like a wrong password.
func (SaltedSHA256) Verify(plaintext, hash, salt string) bool {
	if hash == "" || salt == "" {
		return false
	}

	computed, err := saltedDigest(plaintext, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func saltedDigest(plaintext, salt string) (string, error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSalt, err)
	}

	h := sha256.New()
	h.Write([]byte(plaintext))
	h.Write(saltBytes)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PBKDF2Config tunes the stretched scheme.
type PBKDF2Config struct {
	Iterations int
	KeyLength  int
}

// PBKDF2 is the upgrade scheme: hex(PBKDF2-SHA-256(password, salt))
// with the same base64 salt format as [SaltedSHA256], so records can
// migrate in place once rehashed.
type PBKDF2 struct {
	config PBKDF2Config
}

// NewPBKDF2 returns a PBKDF2 hasher, applying defaults for zero fields.
func NewPBKDF2(cfg PBKDF2Config) *PBKDF2 {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 600_000
	}
	if cfg.KeyLength <= 0 {
		cfg.KeyLength = 32
	}
	return &PBKDF2{config: cfg}
}

// Hash derives a fresh salt and returns (hash, salt).
func (p *PBKDF2) Hash(plaintext string) (string, string, error) {
	salt, err := newSalt()
	if err != nil {
		return "", "", err
	}

	hash, err := p.digest(plaintext, salt)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

// Verify reports whether plaintext matches the stored hash+salt.
func (p *PBKDF2) Verify(plaintext, hash, salt string) bool {
	if hash == "" || salt == "" {
		return false
	}

	computed, err := p.digest(plaintext, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func (p *PBKDF2) digest(plaintext, salt string) (string, error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSalt, err)
	}

	key := pbkdf2.Key([]byte(plaintext), saltBytes, p.config.Iterations, p.config.KeyLength, sha256.New)
	return hex.EncodeToString(key), nil
}
