package resolver

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"member-portal/internal/auth"
	"member-portal/internal/users"
)

var ErrUnverifiedEmail = errors.New("identity email is not verified")

// StoreResolver links identities to local accounts by email.
type StoreResolver struct {
	users users.Store
}

func NewStoreResolver(store users.Store) *StoreResolver {
	return &StoreResolver{users: store}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (users.User, error) {

	if identity == nil {
		return users.User{}, errors.New("identity is nil")
	}

	// Linking by email is only safe when the IdP vouches for it.
	if !identity.EmailVerified {
		return users.User{}, ErrUnverifiedEmail
	}

	// 1. Existing account
	u, err := r.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return users.User{}, err
	}

	// 2. New account without a password; it can only sign in through SSO
	// until a password is set
	u, err = r.users.Insert(ctx, users.User{
		Name:  displayName(identity),
		Email: identity.Email,
		Role:  users.RoleUser,
	})
	if errors.Is(err, users.ErrDuplicateEmail) {
		// lost a race with a concurrent signup
		return r.users.FindByEmail(ctx, identity.Email)
	}
	return u, err
}

// displayName derives a 3-20 char alphanumeric name like the signup form
// would accept.
func displayName(identity *auth.Identity) string {
	src := identity.DisplayName
	if src == "" {
		src, _, _ = strings.Cut(identity.Email, "@")
	}

	var b strings.Builder
	for _, r := range src {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
		if b.Len() == 20 {
			break
		}
	}

	name := b.String()
	for len(name) < 3 {
		name += "0"
	}
	return name
}
