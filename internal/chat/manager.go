package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
)

// Manager hands out at most one Session per account, which is what backs
// the one-in-flight-turn guarantee across requests.
type Manager struct {
	engine   *entitlement.Engine
	gateway  Gateway
	convs    domain.ConversationRepository
	msgs     domain.MessageRepository
	registry *domain.Registry
	logger   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs the session manager.
func NewManager(engine *entitlement.Engine, gateway Gateway, convs domain.ConversationRepository, msgs domain.MessageRepository, registry *domain.Registry, logger zerolog.Logger) *Manager {
	return &Manager{
		engine:   engine,
		gateway:  gateway,
		convs:    convs,
		msgs:     msgs,
		registry: registry,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// ForAccount returns the account's session, creating it on first use. The
// caller provides a freshly loaded profile; an existing session keeps its
// own acknowledged mirror.
func (m *Manager) ForAccount(account *domain.Account) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[account.ID]; ok {
		return sess
	}
	sess := NewSession(account, m.registry.Default(), m.engine, m.gateway, m.convs, m.msgs, m.logger.With().Str("account_id", account.ID).Logger())
	m.sessions[account.ID] = sess
	return sess
}

// Registry exposes the closed model registry.
func (m *Manager) Registry() *domain.Registry {
	return m.registry
}
