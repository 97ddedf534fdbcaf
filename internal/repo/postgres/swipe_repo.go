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

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID           int64
	ActorUserID  int64
	TargetUserID int64
	Action       string
	IsMatch      bool
	MatchedAt    *time.Time
	CreatedAt    time.Time
}

// Insert records a directed swipe. The (actor_user_id, target_user_id) pair
// is unique; a duplicate returns inserted=false and no row is written.
func (r *SwipeRepo) Insert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, action string, now time.Time) (SwipeRecord, bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 || strings.TrimSpace(action) == "" {
		return SwipeRecord{}, false, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipe_actions (
	actor_user_id,
	target_user_id,
	action,
	is_match,
	created_at
) VALUES ($1, $2, $3, FALSE, $4)
ON CONFLICT (actor_user_id, target_user_id) DO NOTHING
RETURNING id, actor_user_id, target_user_id, action, is_match, matched_at, created_at
`, actorUserID, targetUserID, strings.ToUpper(strings.TrimSpace(action)), now.UTC()).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Action,
		&rec.IsMatch,
		&rec.MatchedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeRecord{}, false, nil
		}
		return SwipeRecord{}, false, fmt.Errorf("insert swipe: %w", err)
	}

	return rec, true, nil
}

func (r *SwipeRepo) GetByPair(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (SwipeRecord, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return SwipeRecord{}, fmt.Errorf("invalid swipe lookup payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
SELECT id, actor_user_id, target_user_id, action, is_match, matched_at, created_at
FROM swipe_actions
WHERE actor_user_id = $1 AND target_user_id = $2
LIMIT 1
`, actorUserID, targetUserID).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Action,
		&rec.IsMatch,
		&rec.MatchedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeRecord{}, ErrSwipeNotFound
		}
		return SwipeRecord{}, fmt.Errorf("get swipe by pair: %w", err)
	}

	return rec, nil
}

// LockPair takes a transaction-scoped advisory lock on the unordered user
// pair. Both directions of a crossing like map to the same lock, so the
// second transaction's reciprocal lookup runs only after the first has
// committed its insert. A plain locking read cannot do this: it never sees
// the other transaction's uncommitted row, and the two transactions share no
// rows to conflict on.
func (r *SwipeRepo) LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error {
	if userA <= 0 || userB <= 0 {
		return fmt.Errorf("invalid pair lock payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	_, err := tx.Exec(ctx, `
SELECT pg_advisory_xact_lock(
	hashint8(least($1::bigint, $2::bigint)),
	hashint8(greatest($1::bigint, $2::bigint))
)
`, userA, userB)
	if err != nil {
		return fmt.Errorf("lock swipe pair: %w", err)
	}

	return nil
}

// GetReciprocalLike looks up the reverse like-class edge. Callers must hold
// the pair advisory lock (LockPair) for the lookup to be race-free against a
// crossing like.
func (r *SwipeRepo) GetReciprocalLike(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (SwipeRecord, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return SwipeRecord{}, fmt.Errorf("invalid reciprocal lookup payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
SELECT id, actor_user_id, target_user_id, action, is_match, matched_at, created_at
FROM swipe_actions
WHERE actor_user_id = $1 AND target_user_id = $2 AND action IN ('LIKE', 'SUPER_LIKE')
LIMIT 1
FOR UPDATE
`, targetUserID, actorUserID).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Action,
		&rec.IsMatch,
		&rec.MatchedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeRecord{}, ErrSwipeNotFound
		}
		return SwipeRecord{}, fmt.Errorf("get reciprocal like: %w", err)
	}

	return rec, nil
}

// LinkMutual stamps both directed rows of a pair with the same matched_at.
// The unmatched->matched transition is one way.
func (r *SwipeRepo) LinkMutual(ctx context.Context, tx pgx.Tx, firstID, secondID int64, matchedAt time.Time) error {
	if firstID <= 0 || secondID <= 0 {
		return fmt.Errorf("invalid mutual link payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if matchedAt.IsZero() {
		matchedAt = time.Now().UTC()
	}

	result, err := tx.Exec(ctx, `
UPDATE swipe_actions
SET is_match = TRUE, matched_at = $3
WHERE id IN ($1, $2) AND is_match = FALSE
`, firstID, secondID, matchedAt.UTC())
	if err != nil {
		return fmt.Errorf("link mutual swipes: %w", err)
	}
	if result.RowsAffected() != 2 {
		return fmt.Errorf("link mutual swipes: expected 2 rows, updated %d", result.RowsAffected())
	}

	return nil
}

// CountLikesInWindow counts like-class actions by the actor with created_at
// in [from, to). Passes are excluded.
func (r *SwipeRepo) CountLikesInWindow(ctx context.Context, actorUserID int64, from, to time.Time) (int, error) {
	if actorUserID <= 0 || !to.After(from) {
		return 0, fmt.Errorf("invalid like count payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM swipe_actions
WHERE actor_user_id = $1
	AND action IN ('LIKE', 'SUPER_LIKE')
	AND created_at >= $2
	AND created_at < $3
`, actorUserID, from.UTC(), to.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes in window: %w", err)
	}

	return count, nil
}

func (r *SwipeRepo) ListSwipedTargetIDs(ctx context.Context, actorUserID int64) ([]int64, error) {
	if actorUserID <= 0 {
		return nil, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_user_id
FROM swipe_actions
WHERE actor_user_id = $1
`, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("list swiped targets: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped target: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped targets: %w", rows.Err())
	}

	return ids, nil
}
