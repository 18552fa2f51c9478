package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"neuronix/internal/chat"
	"neuronix/internal/domain"
	"neuronix/internal/middleware"
)

type conversationDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	ModelID   string    `json:"model_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		Sender:    string(m.Sender),
		Content:   m.Content,
		ModelID:   m.ModelID,
		CreatedAt: m.CreatedAt,
	}
}

// ListChats returns the caller's conversation summaries, newest first.
func (a *App) ListChats(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	convs, err := a.Convs.ListByAccount(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list conversations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	out := make([]conversationDTO, 0, len(convs))
	for _, c := range convs {
		out = append(out, conversationDTO{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// ChatMessages returns the ordered transcript of one conversation.
func (a *App) ChatMessages(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	chatID := chi.URLParam(r, "id")
	conv, err := a.Convs.GetByID(r.Context(), chatID)
	if err != nil || conv.AccountID != userID {
		a.error(w, http.StatusNotFound, "not_found", "conversation not found")
		return
	}
	messages, err := a.Msgs.ListByConversation(r.Context(), chatID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load transcript failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}
	out := make([]messageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageDTO(m))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// NewChat abandons the caller's active conversation.
func (a *App) NewChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFor(w, r)
	if !ok {
		return
	}
	sess.NewChat()
	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	ModelID string `json:"model_id"`
	Prompt  string `json:"prompt"`
}

type sendMessageResponse struct {
	ChatID  string       `json:"chat_id"`
	Turns   []messageDTO `json:"turns"`
	Failed  bool         `json:"failed"`
	Plan    string       `json:"plan"`
	Credits int          `json:"credits"`
}

// SendMessage runs one exchange through the caller's session: model
// selection, admission, gateway call, and persistence of both turns.
func (a *App) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFor(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if req.ModelID != "" {
		switch err := sess.SelectModel(a.Registry, req.ModelID); {
		case errors.Is(err, domain.ErrUnknownModel):
			a.error(w, http.StatusBadRequest, "unknown_model", "unknown model")
			return
		case errors.Is(err, domain.ErrModelRequiresUpgrade):
			a.error(w, http.StatusForbidden, "upgrade_required", "this model requires the pro plan")
			return
		}
	}
	if req.ChatID != "" {
		if err := sess.OpenChat(r.Context(), req.ChatID); err != nil {
			a.error(w, http.StatusNotFound, "not_found", "conversation not found")
			return
		}
	}

	start := time.Now()
	res, err := sess.SendTurn(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyPrompt):
			a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		case errors.Is(err, domain.ErrLimitReached):
			a.error(w, http.StatusForbidden, "limit_reached", "daily limit reached")
		case errors.Is(err, domain.ErrModelRequiresUpgrade):
			a.error(w, http.StatusForbidden, "upgrade_required", "this model requires the pro plan")
		case errors.Is(err, domain.ErrTurnInFlight):
			a.error(w, http.StatusConflict, "turn_in_flight", "another message is still being processed")
		default:
			a.Logger.Error().Err(err).Msg("send turn failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to send message")
		}
		return
	}

	a.recordUsage(r.Context(), domain.UsageEvent{
		AccountID:      res.Account.ID,
		ConversationID: res.ConversationID,
		ModelID:        sess.SelectedModel().ID,
		Type:           domain.UsageEventChatTurn,
		Success:        !res.Failed && !res.Abandoned,
		LatencyMS:      int(time.Since(start).Milliseconds()),
		Country:        middleware.CountryFromContext(r.Context()),
	})

	turns := []messageDTO{toMessageDTO(res.UserTurn)}
	if !res.Abandoned {
		turns = append(turns, toMessageDTO(res.AITurn))
	}
	a.json(w, http.StatusOK, sendMessageResponse{
		ChatID:  res.ConversationID,
		Turns:   turns,
		Failed:  res.Failed,
		Plan:    string(res.Account.Plan),
		Credits: res.Account.Credits,
	})
}

// sessionFor loads the caller's profile and returns their session.
func (a *App) sessionFor(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return nil, false
	}
	account, err := a.Accounts.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "account not found")
		return nil, false
	}
	return a.Sessions.ForAccount(account), true
}
