package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lessonkit/season-bot/internal/domain"
)

// UserRepository defines persistence access for chat users.
type UserRepository interface {
	// Create inserts the user. A duplicate id surfaces as a
	// unique-violation error; callers decide whether that matters.
	Create(ctx context.Context, user *domain.User) error
	// GetByID returns the user or pgx.ErrNoRows when absent.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, username)
        VALUES ($1, $2)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
	).Scan(&user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, username, created_at
        FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
