package authz

import (
	"context"
	"errors"
	"fmt"

	"member-portal/internal/session"
	"member-portal/internal/users"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
)

// Gate decides access from a session snapshot. Admin checks read the
// user's current role from the store on every call; the session only
// proves identity.
type Gate struct {
	users users.Store
}

func NewGate(store users.Store) *Gate {
	return &Gate{users: store}
}

func (g *Gate) RequireAuthenticated(s session.Session) error {
	if s.State() != session.StateAuthenticated || s.UserEmail == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireAdmin returns the live user record when it holds the admin role.
func (g *Gate) RequireAdmin(ctx context.Context, s session.Session) (users.User, error) {
	if err := g.RequireAuthenticated(s); err != nil {
		return users.User{}, err
	}

	u, err := g.users.FindByEmail(ctx, s.UserEmail)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, ErrNotAuthorized
	}
	if err != nil {
		return users.User{}, fmt.Errorf("authz: load user: %w", err)
	}

	if !u.IsAdmin() {
		return users.User{}, ErrNotAuthorized
	}
	return u, nil
}
