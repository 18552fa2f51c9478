package domain

import "time"

// Sender enumerates message authors within a conversation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Conversation groups an ordered sequence of turns owned by one account.
type Conversation struct {
	ID        string
	AccountID string
	Title     string
	CreatedAt time.Time
}

// Message is one turn within a conversation. ModelID is set only on AI
// turns; turns are append-only and totally ordered by creation time.
type Message struct {
	ID             string
	ConversationID string
	AccountID      string
	Sender         Sender
	Content        string
	ModelID        string
	CreatedAt      time.Time
}

const titleMaxRunes = 40

// ConversationTitle derives a conversation title from its first prompt.
func ConversationTitle(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= titleMaxRunes {
		return prompt
	}
	return string(runes[:titleMaxRunes]) + "..."
}
