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

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationUsed     = errors.New("invitation already used")
)

type InvitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepo(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

type InvitationRecord struct {
	ID        int64
	Email     string
	Token     string
	InvitedBy int64
	UsedAt    *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r *InvitationRepo) Create(ctx context.Context, email, token string, invitedBy int64, expiresAt time.Time) (InvitationRecord, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(token) == "" || invitedBy <= 0 {
		return InvitationRecord{}, fmt.Errorf("invalid invitation payload")
	}
	if r.pool == nil {
		return InvitationRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec InvitationRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO invitations (email, token, invited_by, expires_at, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id, email, token, invited_by, used_at, expires_at, created_at
`, email, token, invitedBy, expiresAt.UTC()).Scan(
		&rec.ID,
		&rec.Email,
		&rec.Token,
		&rec.InvitedBy,
		&rec.UsedAt,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return InvitationRecord{}, fmt.Errorf("create invitation: %w", err)
	}

	return rec, nil
}

func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (InvitationRecord, error) {
	if strings.TrimSpace(token) == "" {
		return InvitationRecord{}, fmt.Errorf("token is required")
	}
	if r.pool == nil {
		return InvitationRecord{}, ErrInvitationNotFound
	}

	var rec InvitationRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, token, invited_by, used_at, expires_at, created_at
FROM invitations
WHERE token = $1
LIMIT 1
`, token).Scan(
		&rec.ID,
		&rec.Email,
		&rec.Token,
		&rec.InvitedBy,
		&rec.UsedAt,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvitationRecord{}, ErrInvitationNotFound
		}
		return InvitationRecord{}, fmt.Errorf("get invitation by token: %w", err)
	}

	return rec, nil
}

// MarkUsed consumes the invitation once; a second consume fails.
func (r *InvitationRepo) MarkUsed(ctx context.Context, token string, usedAt time.Time) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required")
	}
	if r.pool == nil {
		return nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE invitations
SET used_at = $2
WHERE token = $1 AND used_at IS NULL
`, token, usedAt.UTC())
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationUsed
	}

	return nil
}

func (r *InvitationRepo) List(ctx context.Context, limit int) ([]InvitationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []InvitationRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, email, token, invited_by, used_at, expires_at, created_at
FROM invitations
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	items := make([]InvitationRecord, 0, limit)
	for rows.Next() {
		var rec InvitationRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Email,
			&rec.Token,
			&rec.InvitedBy,
			&rec.UsedAt,
			&rec.ExpiresAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate invitations: %w", rows.Err())
	}

	return items, nil
}

func (r *InvitationRepo) AddPreapprovedEmail(ctx context.Context, email string, addedBy int64) error {
	email = normalizeEmail(email)
	if email == "" || addedBy <= 0 {
		return fmt.Errorf("invalid preapproved email payload")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO preapproved_emails (email, added_by, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (email) DO NOTHING
`, email, addedBy); err != nil {
		return fmt.Errorf("add preapproved email: %w", err)
	}

	return nil
}

func (r *InvitationRepo) IsEmailPreapproved(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("email is required")
	}
	if r.pool == nil {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM preapproved_emails
WHERE email = $1
LIMIT 1
`, email).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup preapproved email: %w", err)
	}

	return true, nil
}

func (r *InvitationRepo) RemovePreapprovedEmail(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("email is required")
	}
	if r.pool == nil {
		return false, nil
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM preapproved_emails
WHERE email = $1
`, email)
	if err != nil {
		return false, fmt.Errorf("remove preapproved email: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
