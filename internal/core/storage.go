package core

import (
	"context"
)

type ConversationLog interface {
	Append(ctx context.Context, entry LogEntry) error
	// Recent returns the newest entries of one user, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]LogEntry, error)
	// RecentAll returns the newest entries across all users, newest first.
	RecentAll(ctx context.Context, limit int) ([]LogEntry, error)
}

// SessionStore keeps dialogue sessions between turns.
// Lock must be held for the whole turn; at most one holder per user id.
type SessionStore interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
	GetOrCreate(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
