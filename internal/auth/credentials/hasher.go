package credentials

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches 12 salt rounds.
const DefaultCost = 12

// maxPasswordBytes is the most bcrypt reads; longer input is truncated.
const maxPasswordBytes = 72

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of the plaintext password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored hash.
// A malformed or empty hash never verifies.
func (h *BcryptHasher) Verify(password string, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

// truncate cuts a password at bcrypt's byte limit. Validation counts
// characters, so multibyte passwords within the length rules can exceed it.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
