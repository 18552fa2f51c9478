package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"neuronix/internal/chat"
	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
	"neuronix/internal/middleware"
)

const (
	tokenIssuer   = "neuronix"
	tokenAudience = "neuronix-clients"
	tokenTTL      = 24 * time.Hour
)

// App bundles the handler dependencies.
type App struct {
	Logger    zerolog.Logger
	Accounts  domain.AccountRepository
	Convs     domain.ConversationRepository
	Msgs      domain.MessageRepository
	Usage     domain.UsageRepository
	Receipts  domain.ReceiptRepository
	Engine    *entitlement.Engine
	Registry  *domain.Registry
	Sessions  *chat.Manager
	Gateway   chat.Gateway
	JWTSecret string
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// recordUsage logs a usage event; failures are logged, never fatal to the
// request.
func (a *App) recordUsage(ctx context.Context, event domain.UsageEvent) {
	if a.Usage == nil {
		return
	}
	event.ID = uuid.NewString()
	if err := a.Usage.Record(ctx, &event); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("record usage failed")
	}
}
