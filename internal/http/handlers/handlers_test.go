package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"neuronix/internal/chat"
	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
)

type fakeAccounts struct {
	mu   sync.Mutex
	rows map[string]*domain.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{rows: make(map[string]*domain.Account)}
}

func (f *fakeAccounts) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	cp := *account
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) UpdateCredits(_ context.Context, id string, credits int) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row.Credits = credits
	cp := *row
	return &cp, nil
}

func (f *fakeAccounts) ResetCredits(_ context.Context, id string, credits int, resetAt time.Time) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row.Credits = credits
	row.LastCreditReset = resetAt
	cp := *row
	return &cp, nil
}

func (f *fakeAccounts) UpgradePlan(_ context.Context, id string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row.Plan = domain.PlanPro
	row.Credits = domain.ProPlanCredits
	cp := *row
	return &cp, nil
}

type fakeConvs struct {
	mu   sync.Mutex
	rows map[string]*domain.Conversation
}

func newFakeConvs() *fakeConvs {
	return &fakeConvs{rows: make(map[string]*domain.Conversation)}
}

func (f *fakeConvs) Create(_ context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *conv
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeConvs) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeConvs) ListByAccount(_ context.Context, accountID string) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Conversation
	for _, row := range f.rows {
		if row.AccountID == accountID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeMsgs struct {
	mu   sync.Mutex
	rows []domain.Message
}

func (f *fakeMsgs) Append(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *msg)
	cp := *msg
	return &cp, nil
}

func (f *fakeMsgs) ListByConversation(_ context.Context, conversationID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, row := range f.rows {
		if row.ConversationID == conversationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeMsgs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeUsage struct {
	mu     sync.Mutex
	events []domain.UsageEvent
}

func (f *fakeUsage) Record(_ context.Context, event *domain.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeUsage) Summary(_ context.Context) (*domain.UsageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &domain.UsageSummary{}
	for _, e := range f.events {
		if e.Type == domain.UsageEventUpgrade {
			continue
		}
		summary.TurnsTotal++
		if e.Success {
			summary.TurnsSucceeded++
		} else {
			summary.TurnsFailed++
		}
	}
	return summary, nil
}

type fakeReceipts struct {
	mu       sync.Mutex
	receipts []domain.UpgradeReceipt
}

func (f *fakeReceipts) Create(_ context.Context, receipt *domain.UpgradeReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, *receipt)
	return nil
}

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	fn    func(modelID, prompt string) (string, error)
}

func (f *fakeGateway) Generate(_ context.Context, modelID, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		return fn(modelID, prompt)
	}
	return "Hello", nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	app      *App
	accounts *fakeAccounts
	convs    *fakeConvs
	msgs     *fakeMsgs
	usage    *fakeUsage
	receipts *fakeReceipts
	gateway  *fakeGateway
}

func newFixture() *fixture {
	accounts := newFakeAccounts()
	convs := newFakeConvs()
	msgs := &fakeMsgs{}
	usage := &fakeUsage{}
	receipts := &fakeReceipts{}
	gw := &fakeGateway{}
	registry, err := domain.NewRegistry(domain.DefaultModels())
	if err != nil {
		panic(err)
	}
	engine := entitlement.NewEngine(accounts)
	logger := zerolog.Nop()
	app := &App{
		Logger:    logger,
		Accounts:  accounts,
		Convs:     convs,
		Msgs:      msgs,
		Usage:     usage,
		Receipts:  receipts,
		Engine:    engine,
		Registry:  registry,
		Sessions:  chat.NewManager(engine, gw, convs, msgs, registry, logger),
		Gateway:   gw,
		JWTSecret: "handler-test-secret",
	}
	return &fixture{app: app, accounts: accounts, convs: convs, msgs: msgs, usage: usage, receipts: receipts, gateway: gw}
}

func (f *fixture) seedAccount(id, email string, plan domain.Plan, credits int) *domain.Account {
	account, err := f.accounts.Create(context.Background(), &domain.Account{
		ID:              id,
		Email:           email,
		Plan:            plan,
		Credits:         credits,
		LastCreditReset: time.Now().UTC(),
	})
	if err != nil {
		panic(err)
	}
	return account
}
