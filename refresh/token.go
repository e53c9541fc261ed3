package refresh

import (
	"crypto/rand"
	"encoding/hex"
)

// tokenRawSize is the entropy of a refresh token in bytes. Hex encoding
// doubles it on the wire.
const tokenRawSize = 64

// NewToken returns a fresh opaque refresh token.
func NewToken() (string, error) {
	var raw [tokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}
