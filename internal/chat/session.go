package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
)

// ErrEmptyPrompt rejects blank sends before any store or gateway work.
var ErrEmptyPrompt = errors.New("prompt is empty")

// Gateway forwards one prompt to a hosted model and returns its reply text.
type Gateway interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// Result reports the outcome of one exchange.
type Result struct {
	ConversationID string
	UserTurn       domain.Message
	AITurn         domain.Message
	Failed         bool
	Abandoned      bool
	Account        *domain.Account
}

// Session orchestrates one account's active conversation: it gates sends
// through the entitlement engine, calls the gateway, and persists both
// turns. The account mirror is only ever replaced with store-acknowledged
// state handed back by the engine or the repositories.
type Session struct {
	engine  *entitlement.Engine
	gateway Gateway
	convs   domain.ConversationRepository
	msgs    domain.MessageRepository
	logger  zerolog.Logger

	mu         sync.Mutex
	account    *domain.Account
	model      domain.ModelDescriptor
	convID     string
	epoch      uint64
	transcript []domain.Message
	inFlight   bool
}

// NewSession builds a session for the given account, starting on the
// registry's default model with no active conversation.
func NewSession(account *domain.Account, model domain.ModelDescriptor, engine *entitlement.Engine, gateway Gateway, convs domain.ConversationRepository, msgs domain.MessageRepository, logger zerolog.Logger) *Session {
	return &Session{
		engine:  engine,
		gateway: gateway,
		convs:   convs,
		msgs:    msgs,
		logger:  logger,
		account: account,
		model:   model,
	}
}

// Account returns the last store-acknowledged profile.
func (s *Session) Account() *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.account
	return &cp
}

// SetAccount replaces the profile mirror. Callers must only pass state the
// store has acknowledged, e.g. after an upgrade.
func (s *Session) SetAccount(account *domain.Account) {
	if account == nil {
		return
	}
	s.mu.Lock()
	s.account = account
	s.mu.Unlock()
}

// SelectedModel returns the currently selected model descriptor.
func (s *Session) SelectedModel() domain.ModelDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SelectModel switches the active model. Selecting the current model is a
// no-op. A pro-locked model on a free plan leaves the selection unchanged
// and returns ErrModelRequiresUpgrade as the upgrade signal.
func (s *Session) SelectModel(registry *domain.Registry, id string) error {
	model, ok := registry.Lookup(id)
	if !ok {
		return domain.ErrUnknownModel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model.ID == id {
		return nil
	}
	if model.ProOnly && s.account.IsFree() {
		return domain.ErrModelRequiresUpgrade
	}
	s.model = model
	return nil
}

// ConversationID returns the active conversation id, empty when none.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convID
}

// Transcript returns a copy of the in-memory transcript.
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// NewChat abandons the active conversation. A turn still in flight for the
// old conversation will have its reply discarded on arrival.
func (s *Session) NewChat() {
	s.mu.Lock()
	s.epoch++
	s.convID = ""
	s.transcript = nil
	s.mu.Unlock()
}

// OpenChat loads an existing conversation and its ordered transcript.
// Opening the already-active conversation is a no-op.
func (s *Session) OpenChat(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	if s.convID == conversationID {
		s.mu.Unlock()
		return nil
	}
	accountID := s.account.ID
	s.mu.Unlock()

	conv, err := s.convs.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.AccountID != accountID {
		return domain.ErrNotFound
	}
	messages, err := s.msgs.ListByConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}

	s.mu.Lock()
	s.epoch++
	s.convID = conversationID
	s.transcript = messages
	s.mu.Unlock()
	return nil
}

// SendTurn runs one exchange: admission, model gate, lazy conversation
// create, user-turn persist, gateway call, AI-turn persist, credit consume.
// The user turn is durable before the gateway call begins, so a crash
// mid-flight leaves a consistent prefix. Gateway failures come back as a
// synthetic AI turn carrying the upstream error text and consume nothing.
func (s *Session) SendTurn(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrTurnInFlight
	}
	s.inFlight = true
	account := s.account
	model := s.model
	epoch := s.epoch
	convID := s.convID
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	account, err := s.engine.Admit(ctx, account)
	if account != nil {
		s.SetAccount(account)
	}
	if err != nil {
		return nil, err
	}

	if model.ProOnly && account.IsFree() {
		return nil, domain.ErrModelRequiresUpgrade
	}

	if convID == "" {
		conv, err := s.convs.Create(ctx, &domain.Conversation{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Title:     domain.ConversationTitle(prompt),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		convID = conv.ID
		s.mu.Lock()
		if s.epoch == epoch {
			s.convID = convID
		}
		s.mu.Unlock()
	}

	userTurn, err := s.msgs.Append(ctx, &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		AccountID:      account.ID,
		Sender:         domain.SenderUser,
		Content:        prompt,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("persist user turn: %w", err)
	}
	s.appendIfActive(epoch, convID, *userTurn)

	reply, err := s.gateway.Generate(ctx, model.ID, prompt)
	if err != nil {
		errTurn := domain.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			AccountID:      account.ID,
			Sender:         domain.SenderAI,
			Content:        err.Error(),
			ModelID:        model.ID,
			CreatedAt:      time.Now().UTC(),
		}
		s.appendIfActive(epoch, convID, errTurn)
		s.logger.Warn().Err(err).Str("model_id", model.ID).Msg("gateway call failed")
		return &Result{ConversationID: convID, UserTurn: *userTurn, AITurn: errTurn, Failed: true, Account: account}, nil
	}

	if !s.active(epoch, convID) {
		s.logger.Warn().Str("conversation_id", convID).Msg("discarding late gateway reply")
		return &Result{ConversationID: convID, UserTurn: *userTurn, Abandoned: true, Account: account}, nil
	}

	aiTurn, err := s.msgs.Append(ctx, &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		AccountID:      account.ID,
		Sender:         domain.SenderAI,
		Content:        reply,
		ModelID:        model.ID,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("persist ai turn: %w", err)
	}
	s.appendIfActive(epoch, convID, *aiTurn)

	account, err = s.engine.Consume(ctx, account)
	if err != nil {
		return nil, err
	}
	s.SetAccount(account)

	return &Result{ConversationID: convID, UserTurn: *userTurn, AITurn: *aiTurn, Account: account}, nil
}

func (s *Session) active(epoch uint64, convID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch && s.convID == convID
}

func (s *Session) appendIfActive(epoch uint64, convID string, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch && s.convID == convID {
		s.transcript = append(s.transcript, msg)
	}
}
