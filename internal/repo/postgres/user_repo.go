package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID        int64
	Email     string
	Role      string
	CreatedAt time.Time
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	email = normalizeEmail(email)
	if email == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, role, created_at
FROM users
WHERE email = $1
LIMIT 1
`, email).Scan(&rec.ID, &rec.Email, &rec.Role, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, role, created_at
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(&rec.ID, &rec.Email, &rec.Role, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return rec, nil
}

// CreateIfAbsent inserts a user for the email and returns the row either way.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, email, role string) (UserRecord, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(role) == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, role, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING id, email, role, created_at
`, email, role).Scan(&rec.ID, &rec.Email, &rec.Role, &rec.CreatedAt)
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
