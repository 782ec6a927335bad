// Package auth holds the authentication core: password digests, bearer
// token issuance and verification, and the gate that turns an
// Authorization header into a trusted identity. Nothing in this package
// touches the Account Store.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest plaintext bcrypt will accept.
const MaxPasswordBytes = 72

// Hasher turns plaintext passwords into salted bcrypt digests.
// It is immutable and safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. The cost is clamped to bcrypt's valid range.
func NewHasher(cost int) *Hasher {
	cost = max(cost, bcrypt.MinCost)
	cost = min(cost, bcrypt.MaxCost)
	return &Hasher{cost: cost}
}

// Hash returns a digest with a fresh random salt embedded, so hashing
// the same plaintext twice yields different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest
// simply does not match. bcrypt only reads the first MaxPasswordBytes, so
// longer candidates are refused rather than compared on a prefix.
func (h *Hasher) Verify(plaintext, digest string) bool {
	if len(plaintext) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
