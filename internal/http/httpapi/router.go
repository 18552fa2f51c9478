package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"neuronix/internal/http/handlers"
	"neuronix/internal/infra"
	"neuronix/internal/middleware"
)

// NewRouter assembles the public HTTP surface. Everything under the
// authenticated group requires a bearer token issued by the auth routes.
func NewRouter(cfg *infra.Config, app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Locale(cfg.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
		r.Post("/v1/auth/signup", app.AuthSignup)
		r.Post("/v1/auth/login", app.AuthLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.JWTSecret))

		r.Get("/v1/me", app.Me)
		r.Post("/v1/me/upgrade", app.Upgrade)

		r.Get("/v1/models", app.Models)

		r.Get("/v1/chats", app.ListChats)
		r.Get("/v1/chats/{id}/messages", app.ChatMessages)
		r.Post("/v1/chats/new", app.NewChat)
		r.Post("/v1/chats/messages", app.SendMessage)

		r.Post("/v1/generate", app.Generate)

		r.Get("/v1/stats/summary", app.StatsSummary)
	})

	return r
}
