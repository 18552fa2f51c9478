package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/domain"
)

// ReceiptRepositoryPG implements domain.ReceiptRepository.
type ReceiptRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository constructs the repository.
func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepositoryPG {
	return &ReceiptRepositoryPG{pool: pool}
}

// Create records one plan upgrade.
func (r *ReceiptRepositoryPG) Create(ctx context.Context, receipt *domain.UpgradeReceipt) error {
	query := `
INSERT INTO upgrade_receipts (id, account_id, amount, currency)
VALUES ($1, $2, $3, $4);
`
	_, err := r.pool.Exec(ctx, query,
		receipt.ID,
		receipt.AccountID,
		receipt.Amount,
		receipt.Currency,
	)
	return err
}
