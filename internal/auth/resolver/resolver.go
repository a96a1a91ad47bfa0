package resolver

import (
	"context"

	"member-portal/internal/auth"
	"member-portal/internal/users"
)

// Resolver determines which local user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (users.User, error)
}
