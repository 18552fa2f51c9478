package domain

import (
	"context"
	"time"
)

// AccountRepository defines access to account profiles. Every mutating
// method returns the persisted row so callers never act on a balance the
// store has not acknowledged.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateCredits(ctx context.Context, id string, credits int) (*Account, error)
	ResetCredits(ctx context.Context, id string, credits int, resetAt time.Time) (*Account, error)
	UpgradePlan(ctx context.Context, id string) (*Account, error)
}

// ConversationRepository persists conversation summaries.
type ConversationRepository interface {
	Create(ctx context.Context, conv *Conversation) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	ListByAccount(ctx context.Context, accountID string) ([]Conversation, error)
}

// MessageRepository appends and reads ordered turns.
type MessageRepository interface {
	Append(ctx context.Context, msg *Message) (*Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]Message, error)
}

// UsageRepository records request outcome events.
type UsageRepository interface {
	Record(ctx context.Context, event *UsageEvent) error
	Summary(ctx context.Context) (*UsageSummary, error)
}

// ReceiptRepository stores upgrade receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *UpgradeReceipt) error
}
