package core

import (
	"context"
	"time"
)

// ChatMessage is a chat entry with its server-assigned identity, handed to
// the persistence adapter after the realtime fan-out.
type ChatMessage struct {
	ID        string
	UserID    string
	UserName  string
	Message   string
	Timestamp time.Time
}

// SessionStore is the durable-storage collaborator consumed by the hub.
// Writes are best effort: a failure loses the durable copy of that single
// update while live sync continues.
type SessionStore interface {
	// InterviewExists reports whether the interview id denotes a known session.
	InterviewExists(ctx context.Context, interviewID string) (bool, error)

	// SaveCode stores the latest editor contents.
	SaveCode(ctx context.Context, interviewID, code string) error

	// SaveLanguage stores the active programming language.
	SaveLanguage(ctx context.Context, interviewID, language string) error

	// SaveStatus stores a status transition observed at the given time,
	// applying the start/end/duration bookkeeping for the interview.
	SaveStatus(ctx context.Context, interviewID, status string, at time.Time) error

	// SaveChatMessage appends a chat message to the interview history.
	SaveChatMessage(ctx context.Context, interviewID string, msg ChatMessage) error
}
