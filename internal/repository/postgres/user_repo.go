// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"grocer-service/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, role, addresses, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var addressesJSON []byte

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &addressesJSON, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	if len(addressesJSON) > 0 {
		if err := json.Unmarshal(addressesJSON, &u.Addresses); err != nil {
			return nil, fmt.Errorf("failed to decode addresses: %w", err)
		}
	}

	return &u, nil
}

// FindByID retrieves a user with their address book
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, notFound(err))
	}
	return u, nil
}

// List returns every user, newest first
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// Count returns the number of registered users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
