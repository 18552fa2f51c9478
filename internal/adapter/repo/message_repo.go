package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/domain"
)

// MessageRepositoryPG implements domain.MessageRepository. Messages are
// append-only; insertion order is the transcript order.
type MessageRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository backed by PostgreSQL.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepositoryPG {
	return &MessageRepositoryPG{pool: pool}
}

// Append inserts one turn and returns the acknowledged row.
func (r *MessageRepositoryPG) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	query := `
INSERT INTO messages (id, conversation_id, account_id, sender, content, model_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, conversation_id, account_id, sender, content, COALESCE(model_id, ''), created_at;
`
	row := r.pool.QueryRow(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.AccountID,
		msg.Sender,
		msg.Content,
		nullableString(msg.ModelID),
	)
	var m domain.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.AccountID, &m.Sender, &m.Content, &m.ModelID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByConversation returns the ordered transcript for a conversation.
func (r *MessageRepositoryPG) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	query := `
SELECT id, conversation_id, account_id, sender, content, COALESCE(model_id, ''), created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.AccountID, &m.Sender, &m.Content, &m.ModelID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
