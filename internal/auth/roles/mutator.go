package roles

import (
	"context"
	"errors"
	"fmt"

	"member-portal/internal/auth/authz"
	"member-portal/internal/logger"
	"member-portal/internal/session"
	"member-portal/internal/users"
)

var (
	ErrSelfRoleChange = errors.New("cannot change your own role")
	ErrUserNotFound   = errors.New("target user not found")
)

type Mutator struct {
	users users.Store
	gate  *authz.Gate
}

func NewMutator(store users.Store, gate *authz.Gate) *Mutator {
	return &Mutator{users: store, gate: gate}
}

func (m *Mutator) Promote(ctx context.Context, actor session.Session, targetEmail string) error {
	return m.setRole(ctx, actor, targetEmail, users.RoleAdmin)
}

func (m *Mutator) Demote(ctx context.Context, actor session.Session, targetEmail string) error {
	return m.setRole(ctx, actor, targetEmail, users.RoleUser)
}

func (m *Mutator) setRole(ctx context.Context, actor session.Session, targetEmail string, role users.Role) error {
	admin, err := m.gate.RequireAdmin(ctx, actor)
	if err != nil {
		return err
	}

	target := users.NormalizeEmail(targetEmail)
	if target == users.NormalizeEmail(admin.Email) {
		return ErrSelfRoleChange
	}

	u, err := m.users.FindByEmail(ctx, target)
	if errors.Is(err, users.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("roles: load target: %w", err)
	}

	if u.Role == role {
		return nil
	}

	err = m.users.UpdateRole(ctx, target, role)
	if errors.Is(err, users.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("roles: update: %w", err)
	}

	logger.Info("role changed", map[string]any{
		"actor":  admin.Email,
		"target": target,
		"role":   string(role),
	})
	return nil
}

// EnsureAdmin promotes email at startup. A missing account is not an error;
// it is logged and left for a later restart.
func EnsureAdmin(ctx context.Context, store users.Store, email string) error {
	if email == "" {
		return nil
	}

	u, err := store.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		logger.Warn("bootstrap admin not registered yet", map[string]any{
			"email": email,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("roles: bootstrap: %w", err)
	}

	if u.IsAdmin() {
		return nil
	}
	if err := store.UpdateRole(ctx, email, users.RoleAdmin); err != nil {
		return fmt.Errorf("roles: bootstrap: %w", err)
	}

	logger.Info("bootstrap admin promoted", map[string]any{
		"email": u.Email,
	})
	return nil
}
