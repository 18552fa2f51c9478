package handlers

import "net/http"

// StatsSummary exposes aggregate platform counters.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Usage.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_accounts":  summary.TotalAccounts,
		"turns_total":     summary.TurnsTotal,
		"turns_succeeded": summary.TurnsSucceeded,
		"turns_failed":    summary.TurnsFailed,
		"turns_last_24h":  summary.TurnsLast24h,
	})
}
