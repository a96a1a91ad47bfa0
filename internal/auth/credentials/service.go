package credentials

import (
	"context"
	"errors"
	"fmt"

	"member-portal/internal/users"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyRegistered  = users.ErrDuplicateEmail
)

type Service struct {
	users     users.Store
	hasher    Hasher
	validator *Validator

	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

func NewService(store users.Store, hasher Hasher, v *Validator) (*Service, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("credentials: prepare dummy hash: %w", err)
	}
	return &Service{
		users:     store,
		hasher:    hasher,
		validator: v,
		dummyHash: dummy,
	}, nil
}

// Register validates the form, rejects known emails, hashes the password and
// stores a new user with the user role.
func (s *Service) Register(ctx context.Context, in SignupInput) (users.User, error) {
	in, err := s.validator.Signup(in)
	if err != nil {
		return users.User{}, err
	}

	// 1. Pre-check uniqueness
	_, err = s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return users.User{}, ErrAlreadyRegistered
	}
	if !errors.Is(err, users.ErrNotFound) {
		return users.User{}, err
	}

	// 2. Hash password
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return users.User{}, fmt.Errorf("credentials: hash password: %w", err)
	}

	// 3. Insert; a concurrent signup may still win, the store reports it
	return s.users.Insert(ctx, users.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         users.RoleUser,
	})
}

// Authenticate returns the user for valid credentials. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (users.User, error) {
	in, err := s.validator.Login(in)
	if err != nil {
		return users.User{}, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, users.ErrNotFound) {
		s.hasher.Verify(in.Password, s.dummyHash)
		return users.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return users.User{}, err
	}

	// Accounts created through single sign-on have no password.
	if u.PasswordHash == "" {
		s.hasher.Verify(in.Password, s.dummyHash)
		return users.User{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return users.User{}, ErrInvalidCredentials
	}
	return u, nil
}
