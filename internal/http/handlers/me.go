package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"neuronix/internal/domain"
	"neuronix/internal/middleware"
)

// Me returns the caller's profile. The lazy daily reset runs on every read
// so the credits reported here are the ones admission will see.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	account, err := a.Accounts.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "account not found")
		return
	}
	account, err = a.Engine.Refresh(r.Context(), account)
	if err != nil {
		a.Logger.Error().Err(err).Msg("refresh entitlement failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, toAccountDTO(account))
}

// Upgrade moves the caller to the pro plan and records a receipt. The
// transition is terminal, so repeating it is harmless.
func (a *App) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	account, err := a.Engine.Upgrade(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("upgrade plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to upgrade plan")
		return
	}
	if a.Receipts != nil {
		receipt := &domain.UpgradeReceipt{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Amount:    domain.ProPlanPrice,
			Currency:  "USD",
		}
		if err := a.Receipts.Create(r.Context(), receipt); err != nil {
			a.Logger.Error().Err(err).Msg("record upgrade receipt failed")
		}
	}
	a.recordUsage(r.Context(), domain.UsageEvent{
		AccountID: account.ID,
		Type:      domain.UsageEventUpgrade,
		Success:   true,
		Country:   middleware.CountryFromContext(r.Context()),
	})
	// Keep any live session mirror in sync with the acknowledged state.
	a.Sessions.ForAccount(account).SetAccount(account)
	a.json(w, http.StatusOK, toAccountDTO(account))
}
