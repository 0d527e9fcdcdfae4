package conversation

import (
	"context"
	"time"
)

// Repository persists conversation metadata.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Conversation, int64, error)
	Deactivate(ctx context.Context, id uint) error
	// DeactivateIdle marks every active conversation without a message since
	// the cutoff as inactive and returns how many rows changed.
	DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error)
	SetLanguage(ctx context.Context, id uint, language string) error
}

// MessageRepository persists the append-only message log.
type MessageRepository interface {
	// ListRecent returns the newest limit messages in ascending creation
	// order, for context-window assembly.
	ListRecent(ctx context.Context, conversationID uint, limit int) ([]Message, error)
	// ListPage returns a history page ordered ascending. A non-empty
	// beforePublicID restricts the page to messages created before that one.
	ListPage(ctx context.Context, conversationID uint, limit, offset int, beforePublicID string) (*HistoryPage, error)
	// AppendTurn writes the inbound and produced messages and bumps the
	// conversation's message count in a single transaction, preserving the
	// append-only ordering invariant.
	AppendTurn(ctx context.Context, conv *Conversation, userMsg, assistantMsg *Message) error
}
