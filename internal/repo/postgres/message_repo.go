package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

type MessageRecord struct {
	ID             int64
	ConversationID int64
	SenderUserID   int64
	Body           string
	CreatedAt      time.Time
}

func (r *MessageRepo) Append(ctx context.Context, conversationID, senderUserID int64, body string) (MessageRecord, error) {
	if conversationID <= 0 || senderUserID <= 0 || strings.TrimSpace(body) == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (conversation_id, sender_user_id, body, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, conversation_id, sender_user_id, body, created_at
`, conversationID, senderUserID, strings.TrimSpace(body)).Scan(
		&rec.ID,
		&rec.ConversationID,
		&rec.SenderUserID,
		&rec.Body,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("append message: %w", err)
	}

	return rec, nil
}

// ListBefore pages history backwards: messages with id < beforeID, newest
// first. beforeID <= 0 starts from the newest message.
func (r *MessageRepo) ListBefore(ctx context.Context, conversationID, beforeID int64, limit int) ([]MessageRecord, error) {
	if conversationID <= 0 {
		return nil, fmt.Errorf("invalid conversation id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	query := `
SELECT id, conversation_id, sender_user_id, body, created_at
FROM messages
WHERE conversation_id = $1
`
	args := []any{conversationID}
	if beforeID > 0 {
		query += ` AND id < $2
ORDER BY id DESC
LIMIT $3`
		args = append(args, beforeID, limit)
	} else {
		query += `
ORDER BY id DESC
LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ConversationID,
			&rec.SenderUserID,
			&rec.Body,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}
