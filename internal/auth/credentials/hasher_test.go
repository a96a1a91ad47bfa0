package credentials

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if strings.Contains(hash, "secret1") {
		t.Fatal("hash must not contain the plaintext")
	}
	if !h.Verify("secret1", hash) {
		t.Fatal("expected password verification to succeed")
	}
	if h.Verify("secret2", hash) {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestVerifyRejectsGarbageHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if h.Verify("secret1", "") {
		t.Fatal("empty hash must not verify")
	}
	if h.Verify("secret1", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash must not verify")
	}
}

func TestDefaultCostApplied(t *testing.T) {
	h := NewBcryptHasher(0)
	if h.cost != DefaultCost {
		t.Fatalf("cost = %d, want %d", h.cost, DefaultCost)
	}
}

func TestHashAcceptsMultibytePasswordsPastByteLimit(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	password := strings.Repeat("密", 30)

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify(password, hash) {
		t.Fatal("expected multibyte password to verify")
	}
	if h.Verify(strings.Repeat("密", 23), hash) {
		t.Fatal("a shorter prefix below the byte limit must not verify")
	}
}
