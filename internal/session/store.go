// Package session defines persistence for chat sessions and their transcripts.
package session

import (
	"context"
	"time"
)

// Role labels who produced a transcript message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is one conversation with a user.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one transcript entry. Payload holds the serialized context
// payload that enriched the exchange, empty for direct exchanges.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines session and transcript persistence operations.
type Store interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)

	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, sessionID string, limit int) ([]*Message, error)

	CountSessions(ctx context.Context) (int64, error)

	Close() error
}
