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

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

type PhotoRecord struct {
	ID         int64
	UserID     int64
	ObjectKey  string
	Position   int
	UploadedAt time.Time
}

func (r *PhotoRepo) Add(ctx context.Context, userID int64, objectKey string, position int) (PhotoRecord, error) {
	if userID <= 0 || strings.TrimSpace(objectKey) == "" {
		return PhotoRecord{}, fmt.Errorf("invalid photo payload")
	}
	if r.pool == nil {
		return PhotoRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec PhotoRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO photos (user_id, object_key, position, uploaded_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, user_id, object_key, position, uploaded_at
`, userID, objectKey, position).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ObjectKey,
		&rec.Position,
		&rec.UploadedAt,
	)
	if err != nil {
		return PhotoRecord{}, fmt.Errorf("add photo: %w", err)
	}

	return rec, nil
}

func (r *PhotoRepo) ListForUser(ctx context.Context, userID int64) ([]PhotoRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []PhotoRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, position, uploaded_at
FROM photos
WHERE user_id = $1
ORDER BY position ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]PhotoRecord, 0, 6)
	for rows.Next() {
		var rec PhotoRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ObjectKey, &rec.Position, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, userID, photoID int64) (string, error) {
	if userID <= 0 || photoID <= 0 {
		return "", fmt.Errorf("invalid photo delete payload")
	}
	if r.pool == nil {
		return "", nil
	}

	var objectKey string
	err := r.pool.QueryRow(ctx, `
DELETE FROM photos
WHERE id = $1 AND user_id = $2
RETURNING object_key
`, photoID, userID).Scan(&objectKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("delete photo: %w", err)
	}

	return objectKey, nil
}
