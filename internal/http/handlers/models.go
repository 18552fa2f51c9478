package handlers

import "net/http"

type modelDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GlowColor string `json:"glow_color"`
	ProOnly   bool   `json:"pro_only"`
}

// Models lists the closed model registry in its configured order.
func (a *App) Models(w http.ResponseWriter, r *http.Request) {
	models := a.Registry.List()
	out := make([]modelDTO, 0, len(models))
	for _, m := range models {
		out = append(out, modelDTO{ID: m.ID, Name: m.Name, GlowColor: m.GlowColor, ProOnly: m.ProOnly})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}
