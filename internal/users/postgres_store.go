package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var (
		u    User
		role string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, user_type, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, NormalizeEmail(email)).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("users: find by email: %w", err)
	}

	u.Role = ParseRole(role)
	return u, nil
}

func (s *PostgresStore) Insert(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if !u.Role.Valid() {
		u.Role = RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = NormalizeEmail(u.Email)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, user_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return User{}, ErrDuplicateEmail
	}
	if err != nil {
		return User{}, fmt.Errorf("users: insert: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateRole(ctx context.Context, email string, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET user_type = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2)
	`, string(role), NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("users: update role: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: update role: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, user_type, created_at
		FROM users
		ORDER BY created_at, email
	`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var (
			u    User
			role string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("users: list scan: %w", err)
		}
		u.Role = ParseRole(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return out, nil
}
