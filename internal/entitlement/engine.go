package entitlement

import (
	"context"
	"fmt"
	"time"

	"neuronix/internal/domain"
)

// ResetInterval is the rolling window after which a free account's credits
// are replenished. The reset is evaluated lazily on profile reads, never by
// a background timer.
const ResetInterval = 24 * time.Hour

// Engine decides request admission and owns every credit mutation. Each
// transition is persisted through the account repository first; the Account
// returned by a method is always the row the store acknowledged.
type Engine struct {
	accounts domain.AccountRepository
	now      func() time.Time
}

// NewEngine constructs an engine over the given account repository.
func NewEngine(accounts domain.AccountRepository) *Engine {
	return &Engine{accounts: accounts, now: time.Now}
}

// WithClock overrides the engine clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Refresh applies the lazy daily reset and returns the current profile.
// Free accounts whose last reset is more than ResetInterval in the past get
// a fresh allotment and a new reset stamp. Pro accounts pass through.
func (e *Engine) Refresh(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if !account.IsFree() {
		return account, nil
	}
	now := e.now()
	if now.Sub(account.LastCreditReset) <= ResetInterval {
		return account, nil
	}
	updated, err := e.accounts.ResetCredits(ctx, account.ID, domain.FreePlanCredits, now)
	if err != nil {
		return nil, fmt.Errorf("reset credits: %w", err)
	}
	return updated, nil
}

// Admit reports whether the account may issue another model request. The
// daily reset is applied first so admission is evaluated against the
// post-reset balance. Denial is domain.ErrLimitReached; the refreshed
// profile is returned either way.
func (e *Engine) Admit(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	account, err := e.Refresh(ctx, account)
	if err != nil {
		return nil, err
	}
	if !account.IsFree() {
		return account, nil
	}
	if account.Credits > 0 {
		return account, nil
	}
	return account, domain.ErrLimitReached
}

// Consume burns one credit after a successful completion. Pro accounts are
// untouched. The balance is clamped at zero and the returned account
// reflects the acknowledged write; on persistence failure the caller's
// state is left as it was.
func (e *Engine) Consume(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if !account.IsFree() {
		return account, nil
	}
	credits := account.Credits - 1
	if credits < 0 {
		credits = 0
	}
	updated, err := e.accounts.UpdateCredits(ctx, account.ID, credits)
	if err != nil {
		return nil, fmt.Errorf("consume credit: %w", err)
	}
	return updated, nil
}

// Upgrade moves an account to the pro plan. The transition is terminal;
// there is no path back to free.
func (e *Engine) Upgrade(ctx context.Context, accountID string) (*domain.Account, error) {
	updated, err := e.accounts.UpgradePlan(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("upgrade plan: %w", err)
	}
	return updated, nil
}
