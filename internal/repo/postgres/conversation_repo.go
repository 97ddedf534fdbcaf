package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

type ConversationRecord struct {
	ID           int64
	ConnectionID int64
	CreatedAt    time.Time
}

// CreateForConnection opens the conversation for a connection. One per
// connection; a duplicate create returns the existing row.
func (r *ConversationRepo) CreateForConnection(ctx context.Context, tx pgx.Tx, connectionID int64) (ConversationRecord, error) {
	if connectionID <= 0 {
		return ConversationRecord{}, fmt.Errorf("invalid connection id")
	}
	if tx == nil {
		return ConversationRecord{}, fmt.Errorf("transaction is required")
	}

	var rec ConversationRecord
	err := tx.QueryRow(ctx, `
INSERT INTO conversations (connection_id, created_at)
VALUES ($1, NOW())
ON CONFLICT (connection_id) DO NOTHING
RETURNING id, connection_id, created_at
`, connectionID).Scan(&rec.ID, &rec.ConnectionID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.getByConnectionTx(ctx, tx, connectionID)
		}
		return ConversationRecord{}, fmt.Errorf("create conversation: %w", err)
	}

	return rec, nil
}

func (r *ConversationRepo) getByConnectionTx(ctx context.Context, tx pgx.Tx, connectionID int64) (ConversationRecord, error) {
	var rec ConversationRecord
	err := tx.QueryRow(ctx, `
SELECT id, connection_id, created_at
FROM conversations
WHERE connection_id = $1
LIMIT 1
`, connectionID).Scan(&rec.ID, &rec.ConnectionID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConversationRecord{}, ErrConversationNotFound
		}
		return ConversationRecord{}, fmt.Errorf("get conversation by connection: %w", err)
	}
	return rec, nil
}

func (r *ConversationRepo) GetByConnection(ctx context.Context, connectionID int64) (ConversationRecord, error) {
	if connectionID <= 0 {
		return ConversationRecord{}, fmt.Errorf("invalid connection id")
	}
	if r.pool == nil {
		return ConversationRecord{}, ErrConversationNotFound
	}

	var rec ConversationRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, connection_id, created_at
FROM conversations
WHERE connection_id = $1
LIMIT 1
`, connectionID).Scan(&rec.ID, &rec.ConnectionID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConversationRecord{}, ErrConversationNotFound
		}
		return ConversationRecord{}, fmt.Errorf("get conversation: %w", err)
	}

	return rec, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, conversationID int64) (ConversationRecord, error) {
	if conversationID <= 0 {
		return ConversationRecord{}, fmt.Errorf("invalid conversation id")
	}
	if r.pool == nil {
		return ConversationRecord{}, ErrConversationNotFound
	}

	var rec ConversationRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, connection_id, created_at
FROM conversations
WHERE id = $1
LIMIT 1
`, conversationID).Scan(&rec.ID, &rec.ConnectionID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConversationRecord{}, ErrConversationNotFound
		}
		return ConversationRecord{}, fmt.Errorf("get conversation by id: %w", err)
	}

	return rec, nil
}
