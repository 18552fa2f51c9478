package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"neuronix/internal/domain"
)

const uniqueViolation = "23505"

const accountColumns = "id, email, password_hash, plan, credits, last_credit_reset, created_at, updated_at"

// AccountRepositoryPG implements domain.AccountRepository backed by PostgreSQL.
// Every mutation uses RETURNING so callers receive the acknowledged row.
type AccountRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepositoryPG.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepositoryPG {
	return &AccountRepositoryPG{pool: pool}
}

// Create inserts a new account profile with its initial entitlement state.
func (r *AccountRepositoryPG) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
INSERT INTO accounts (id, email, password_hash, plan, credits, last_credit_reset)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns + `;
`
	row := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Plan,
		account.Credits,
		account.LastCreditReset,
	)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches an account by UUID.
func (r *AccountRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByEmail fetches an account by email address.
func (r *AccountRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// UpdateCredits persists a new credit balance.
func (r *AccountRepositoryPG) UpdateCredits(ctx context.Context, id string, credits int) (*domain.Account, error) {
	query := `
UPDATE accounts
SET credits = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns + `;
`
	return scanAccount(r.pool.QueryRow(ctx, query, id, credits))
}

// ResetCredits replenishes the balance and stamps the reset time.
func (r *AccountRepositoryPG) ResetCredits(ctx context.Context, id string, credits int, resetAt time.Time) (*domain.Account, error) {
	query := `
UPDATE accounts
SET credits = $2,
    last_credit_reset = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns + `;
`
	return scanAccount(r.pool.QueryRow(ctx, query, id, credits, resetAt))
}

// UpgradePlan moves the account to the pro plan.
func (r *AccountRepositoryPG) UpgradePlan(ctx context.Context, id string) (*domain.Account, error) {
	query := `
UPDATE accounts
SET plan = $2,
    credits = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns + `;
`
	return scanAccount(r.pool.QueryRow(ctx, query, id, domain.PlanPro, domain.ProPlanCredits))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Plan, &a.Credits, &a.LastCreditReset, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
