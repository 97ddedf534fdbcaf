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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type ProfileRecord struct {
	UserID         int64
	DisplayName    string
	Birthdate      *time.Time
	Age            int
	Gender         string
	City           string
	Religion       string
	Education      string
	Occupation     string
	Bio            string
	ApprovalStatus string
	RejectReason   string
	UpdatedAt      time.Time
}

const profileColumns = `
	p.user_id,
	COALESCE(p.display_name, ''),
	p.birthdate,
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.gender, ''),
	COALESCE(p.city, ''),
	COALESCE(p.religion, ''),
	COALESCE(p.education, ''),
	COALESCE(p.occupation, ''),
	COALESCE(p.bio, ''),
	p.approval_status,
	COALESCE(p.reject_reason, ''),
	p.updated_at`

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE p.user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.Birthdate,
		&rec.Age,
		&rec.Gender,
		&rec.City,
		&rec.Religion,
		&rec.Education,
		&rec.Occupation,
		&rec.Bio,
		&rec.ApprovalStatus,
		&rec.RejectReason,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

type ProfileUpsert struct {
	UserID      int64
	DisplayName string
	Birthdate   *time.Time
	Gender      string
	City        string
	Religion    string
	Education   string
	Occupation  string
	Bio         string
}

// Upsert writes profile core fields. Any edit sends the profile back to the
// pending approval queue.
func (r *ProfileRepo) Upsert(ctx context.Context, p ProfileUpsert) error {
	if p.UserID <= 0 || strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	birthdate,
	gender,
	city,
	religion,
	education,
	occupation,
	bio,
	approval_status,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	birthdate = EXCLUDED.birthdate,
	gender = EXCLUDED.gender,
	city = EXCLUDED.city,
	religion = EXCLUDED.religion,
	education = EXCLUDED.education,
	occupation = EXCLUDED.occupation,
	bio = EXCLUDED.bio,
	approval_status = 'pending',
	reject_reason = NULL,
	updated_at = NOW()
`, p.UserID, strings.TrimSpace(p.DisplayName), p.Birthdate, p.Gender, p.City, p.Religion, p.Education, p.Occupation, p.Bio); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SetApproval(ctx context.Context, userID int64, status, rejectReason string) (bool, error) {
	if userID <= 0 || strings.TrimSpace(status) == "" {
		return false, fmt.Errorf("invalid approval payload")
	}
	if r.pool == nil {
		return false, nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET
	approval_status = $2,
	reject_reason = NULLIF($3, ''),
	updated_at = NOW()
WHERE user_id = $1
`, userID, status, strings.TrimSpace(rejectReason))
	if err != nil {
		return false, fmt.Errorf("set profile approval: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *ProfileRepo) ListPending(ctx context.Context, limit int) ([]ProfileRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []ProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE p.approval_status = 'pending'
ORDER BY p.updated_at ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, limit)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.Birthdate,
			&rec.Age,
			&rec.Gender,
			&rec.City,
			&rec.Religion,
			&rec.Education,
			&rec.Occupation,
			&rec.Bio,
			&rec.ApprovalStatus,
			&rec.RejectReason,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pending profile: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate pending profiles: %w", rows.Err())
	}

	return items, nil
}

// ListApprovedCandidates returns approved profiles other than the viewer's,
// excluding the given user ids.
func (r *ProfileRepo) ListApprovedCandidates(ctx context.Context, viewerID int64, excludeIDs []int64, limit int) ([]ProfileRecord, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []ProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE
	p.approval_status = 'approved'
	AND p.user_id <> $1
	AND NOT (p.user_id = ANY($2))
ORDER BY p.updated_at DESC
LIMIT $3
`, viewerID, excludeIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("list approved candidates: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, limit)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.Birthdate,
			&rec.Age,
			&rec.Gender,
			&rec.City,
			&rec.Religion,
			&rec.Education,
			&rec.Occupation,
			&rec.Bio,
			&rec.ApprovalStatus,
			&rec.RejectReason,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate profile: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidate profiles: %w", rows.Err())
	}

	return items, nil
}
