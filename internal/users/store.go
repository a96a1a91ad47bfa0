package users

import "context"

// Store is the credential store. It holds records only; password
// verification and uniqueness pre-checks belong to the caller.
type Store interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, u User) (User, error)
	UpdateRole(ctx context.Context, email string, role Role) error
	List(ctx context.Context) ([]User, error)
}
