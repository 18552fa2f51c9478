package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"neuronix/internal/domain"
	"neuronix/internal/gateway"
	"neuronix/internal/middleware"
)

type generateRequest struct {
	ModelID string `json:"modelId"`
	Prompt  string `json:"prompt"`
}

func plainText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Generate is the bare proxy surface: it forwards one prompt to the model
// gateway and returns the reply as plain text. Upstream failures pass
// through with their status and body; the upstream credential never leaves
// the server. Admission and credit accounting still apply so the proxy is
// not a way around the free-plan limit.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		plainText(w, http.StatusUnauthorized, "missing user context")
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		plainText(w, http.StatusBadRequest, "Missing modelId or prompt in request body")
		return
	}
	if req.ModelID == "" || req.Prompt == "" {
		plainText(w, http.StatusBadRequest, "Missing modelId or prompt in request body")
		return
	}
	model, ok := a.Registry.Lookup(req.ModelID)
	if !ok {
		plainText(w, http.StatusBadRequest, "unknown model")
		return
	}

	account, err := a.Accounts.GetByID(r.Context(), userID)
	if err != nil {
		plainText(w, http.StatusNotFound, "account not found")
		return
	}
	account, err = a.Engine.Admit(r.Context(), account)
	if err != nil {
		if errors.Is(err, domain.ErrLimitReached) {
			plainText(w, http.StatusForbidden, "daily limit reached")
			return
		}
		a.Logger.Error().Err(err).Msg("admission check failed")
		plainText(w, http.StatusInternalServerError, "failed to check entitlement")
		return
	}
	if model.ProOnly && account.IsFree() {
		plainText(w, http.StatusForbidden, "this model requires the pro plan")
		return
	}

	start := time.Now()
	text, err := a.Gateway.Generate(r.Context(), model.ID, req.Prompt)
	success := err == nil
	a.recordUsage(r.Context(), domain.UsageEvent{
		AccountID: account.ID,
		ModelID:   model.ID,
		Type:      domain.UsageEventGenerate,
		Success:   success,
		LatencyMS: int(time.Since(start).Milliseconds()),
		Country:   middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		var gwErr *gateway.Error
		switch {
		case errors.As(err, &gwErr):
			plainText(w, gwErr.Status, gwErr.Body)
		case errors.Is(err, domain.ErrGatewayTimeout):
			plainText(w, http.StatusGatewayTimeout, "gateway timeout")
		default:
			plainText(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if _, err := a.Engine.Consume(r.Context(), account); err != nil {
		a.Logger.Error().Err(err).Msg("consume credit failed")
		plainText(w, http.StatusInternalServerError, "failed to record usage")
		return
	}
	plainText(w, http.StatusOK, text)
}
