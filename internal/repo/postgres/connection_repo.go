package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

type ConnectionRecord struct {
	ID           int64
	TargetUserID int64
	DisplayName  string
	Age          int
	City         string
	MatchedAt    time.Time
	CreatedAt    time.Time
}

// Create inserts the connection for a freshly linked mutual match. The pair
// is stored ordered (user_a_id < user_b_id) and unique; a pre-existing row
// is returned as-is.
func (r *ConnectionRepo) Create(ctx context.Context, tx pgx.Tx, userID, targetID int64, matchedAt time.Time) (int64, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return 0, fmt.Errorf("invalid connection payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if matchedAt.IsZero() {
		matchedAt = time.Now().UTC()
	}

	userA, userB := orderPair(userID, targetID)

	var connectionID int64
	err := tx.QueryRow(ctx, `
INSERT INTO connections (
	user_a_id,
	user_b_id,
	status,
	matched_at,
	created_at
) VALUES ($1, $2, 'active', $3, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, userA, userB, matchedAt.UTC()).Scan(&connectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.getIDByPair(ctx, tx, userA, userB)
		}
		return 0, fmt.Errorf("create connection: %w", err)
	}

	return connectionID, nil
}

func (r *ConnectionRepo) getIDByPair(ctx context.Context, tx pgx.Tx, userA, userB int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
SELECT id
FROM connections
WHERE user_a_id = $1 AND user_b_id = $2
LIMIT 1
`, userA, userB).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get connection by pair: %w", err)
	}
	return id, nil
}

func (r *ConnectionRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]ConnectionRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []ConnectionRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	c.id,
	CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END AS target_user_id,
	COALESCE(p.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.city, ''),
	c.matched_at,
	c.created_at
FROM connections c
JOIN profiles p ON p.user_id = CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END
WHERE
	(c.user_a_id = $1 OR c.user_b_id = $1)
	AND c.status = 'active'
ORDER BY c.matched_at DESC, c.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active connections: %w", err)
	}
	defer rows.Close()

	items := make([]ConnectionRecord, 0, limit)
	for rows.Next() {
		var item ConnectionRecord
		if err := rows.Scan(
			&item.ID,
			&item.TargetUserID,
			&item.DisplayName,
			&item.Age,
			&item.City,
			&item.MatchedAt,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active connection: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active connections: %w", rows.Err())
	}

	return items, nil
}

// IsMember reports whether userID is one side of the connection.
func (r *ConnectionRepo) IsMember(ctx context.Context, connectionID, userID int64) (bool, int64, error) {
	if connectionID <= 0 || userID <= 0 {
		return false, 0, fmt.Errorf("invalid membership payload")
	}
	if r.pool == nil {
		return false, 0, nil
	}

	var userA, userB int64
	err := r.pool.QueryRow(ctx, `
SELECT user_a_id, user_b_id
FROM connections
WHERE id = $1 AND status = 'active'
LIMIT 1
`, connectionID).Scan(&userA, &userB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("get connection members: %w", err)
	}

	switch userID {
	case userA:
		return true, userB, nil
	case userB:
		return true, userA, nil
	}
	return false, 0, nil
}

func (r *ConnectionRepo) ListConnectedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
FROM connections
WHERE (user_a_id = $1 OR user_b_id = $1) AND status = 'active'
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list connected users: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan connected user: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate connected users: %w", rows.Err())
	}

	return ids, nil
}

func (r *ConnectionRepo) Dissolve(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid dissolve payload")
	}
	if r.pool == nil {
		return false, nil
	}

	userA, userB := orderPair(userID, targetID)
	result, err := r.pool.Exec(ctx, `
UPDATE connections
SET status = 'dissolved'
WHERE user_a_id = $1 AND user_b_id = $2 AND status = 'active'
`, userA, userB)
	if err != nil {
		return false, fmt.Errorf("dissolve connection: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
