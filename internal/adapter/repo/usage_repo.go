package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/domain"
)

// UsageRepositoryPG implements domain.UsageRepository.
type UsageRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(pool *pgxpool.Pool) *UsageRepositoryPG {
	return &UsageRepositoryPG{pool: pool}
}

// Record inserts one usage event.
func (r *UsageRepositoryPG) Record(ctx context.Context, event *domain.UsageEvent) error {
	query := `
INSERT INTO usage_events (id, account_id, conversation_id, model_id, event_type, success, latency_ms, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.AccountID,
		nullableString(event.ConversationID),
		nullableString(event.ModelID),
		event.Type,
		event.Success,
		event.LatencyMS,
		nullableString(event.Country),
	)
	return err
}

// Summary returns aggregated platform counters.
func (r *UsageRepositoryPG) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	query := `
SELECT
    (SELECT COUNT(*) FROM accounts),
    COUNT(*) FILTER (WHERE event_type = 'chat_turn'),
    COUNT(*) FILTER (WHERE event_type = 'chat_turn' AND success),
    COUNT(*) FILTER (WHERE event_type = 'chat_turn' AND NOT success),
    COUNT(*) FILTER (WHERE event_type = 'chat_turn' AND created_at > NOW() - INTERVAL '24 hours')
FROM usage_events;
`
	row := r.pool.QueryRow(ctx, query)
	var s domain.UsageSummary
	if err := row.Scan(&s.TotalAccounts, &s.TurnsTotal, &s.TurnsSucceeded, &s.TurnsFailed, &s.TurnsLast24h); err != nil {
		return nil, err
	}
	return &s, nil
}
