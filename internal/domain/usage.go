package domain

import "time"

// UsageEventType enumerates recorded request outcomes.
type UsageEventType string

const (
	UsageEventChatTurn UsageEventType = "chat_turn"
	UsageEventGenerate UsageEventType = "generate"
	UsageEventUpgrade  UsageEventType = "upgrade"
)

// UsageEvent records the outcome of one model request for analytics.
type UsageEvent struct {
	ID             string
	AccountID      string
	ConversationID string
	ModelID        string
	Type           UsageEventType
	Success        bool
	LatencyMS      int
	Country        string
	CreatedAt      time.Time
}

// UsageSummary aggregates platform-wide counters for the stats endpoint.
type UsageSummary struct {
	TotalAccounts  int64
	TurnsTotal     int64
	TurnsSucceeded int64
	TurnsFailed    int64
	TurnsLast24h   int64
}

// UpgradeReceipt records a free-to-pro plan transition.
type UpgradeReceipt struct {
	ID        string
	AccountID string
	Amount    int
	Currency  string
	CreatedAt time.Time
}
