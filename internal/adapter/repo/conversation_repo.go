package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/domain"
)

// ConversationRepositoryPG implements domain.ConversationRepository.
type ConversationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new conversation repository backed by PostgreSQL.
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepositoryPG {
	return &ConversationRepositoryPG{pool: pool}
}

// Create inserts a new conversation record.
func (r *ConversationRepositoryPG) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	query := `
INSERT INTO conversations (id, account_id, title)
VALUES ($1, $2, $3)
RETURNING id, account_id, title, created_at;
`
	return scanConversation(r.pool.QueryRow(ctx, query, conv.ID, conv.AccountID, conv.Title))
}

// GetByID fetches a conversation by its identifier.
func (r *ConversationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `SELECT id, account_id, title, created_at FROM conversations WHERE id = $1`
	return scanConversation(r.pool.QueryRow(ctx, query, id))
}

// ListByAccount returns the account's conversation summaries, newest first.
func (r *ConversationRepositoryPG) ListByAccount(ctx context.Context, accountID string) ([]domain.Conversation, error) {
	query := `
SELECT id, account_id, title, created_at
FROM conversations
WHERE account_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := row.Scan(&c.ID, &c.AccountID, &c.Title, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
