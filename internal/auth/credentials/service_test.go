package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"member-portal/internal/users"
)

func newTestService(t *testing.T) (*Service, *users.MemStore) {
	t.Helper()
	store := users.NewMemStore()
	svc, err := NewService(store, NewBcryptHasher(bcrypt.MinCost), NewValidator())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterCreatesUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, SignupInput{Name: "alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Name != "alice" || u.Email != "a@x.com" || u.Role != users.RoleUser {
		t.Fatalf("unexpected user: %#v", u)
	}

	stored, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, SignupInput{Name: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, SignupInput{Name: "alice2", Email: "A@x.com", Password: "secret2"})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	list, _ := store.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(list))
	}
}

func TestRegisterValidationDoesNotTouchStore(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Register(context.Background(), SignupInput{Name: "a", Email: "a@x.com", Password: "secret1"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	list, _ := store.List(context.Background())
	if len(list) != 0 {
		t.Fatal("store must stay empty")
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Register(ctx, SignupInput{Name: "alice", Email: "a@x.com", Password: "secret1"})

	u, err := svc.Authenticate(ctx, LoginInput{Email: "A@X.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Name != "alice" {
		t.Fatalf("unexpected user: %#v", u)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Register(ctx, SignupInput{Name: "alice", Email: "a@x.com", Password: "secret1"})

	_, wrongPassword := svc.Authenticate(ctx, LoginInput{Email: "a@x.com", Password: "secret2"})
	_, unknownEmail := svc.Authenticate(ctx, LoginInput{Email: "b@x.com", Password: "secret1"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatal("failure messages must not reveal which field was wrong")
	}
}

func TestRegisterMultibytePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	password := strings.Repeat("密", 25)

	if _, err := svc.Register(ctx, SignupInput{Name: "alice", Email: "a@x.com", Password: password}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, LoginInput{Email: "a@x.com", Password: password}); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}

// countingHasher records which hashes Verify was asked to compare against.
type countingHasher struct {
	Hasher
	verified []string
}

func (h *countingHasher) Verify(password string, hash string) bool {
	h.verified = append(h.verified, hash)
	return h.Hasher.Verify(password, hash)
}

func TestAuthenticatePasswordlessAccountRunsCompare(t *testing.T) {
	store := users.NewMemStore()
	hasher := &countingHasher{Hasher: NewBcryptHasher(bcrypt.MinCost)}
	svc, err := NewService(store, hasher, NewValidator())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Insert(ctx, users.User{Name: "ssouser", Email: "sso@x.com"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = svc.Authenticate(ctx, LoginInput{Email: "sso@x.com", Password: "secret1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hasher.verified) != 1 || hasher.verified[0] != svc.dummyHash {
		t.Fatalf("expected one compare against the dummy hash, got %q", hasher.verified)
	}
}
