// Package memory keeps sessions in process memory. Sessions do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/keylock"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	locks    *keylock.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*core.Session),
		locks:    keylock.New(),
	}
}

func (s *SessionStore) Lock(ctx context.Context, userID string) (func(), error) {
	return s.locks.Lock(ctx, userID)
}

// GetOrCreate returns a copy; changes are visible to others only after Save.
func (s *SessionStore) GetOrCreate(_ context.Context, userID string) (*core.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[userID]; !ok {
		sess = core.NewSession(userID)
		s.sessions[userID] = sess
	}
	return sess.Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session.Clone()
	return nil
}

// Len reports the number of known sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LogStore is an in-memory conversation log for the CLI without a database and for tests.
type LogStore struct {
	mu      sync.RWMutex
	entries []core.LogEntry
	nextID  int64
}

func NewLogStore() *LogStore {
	return &LogStore{}
}

func (l *LogStore) Append(_ context.Context, entry core.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	entry.ID = l.nextID
	entry.Slots = entry.Slots.Clone()
	if len(entry.Slots) == 0 {
		entry.Slots = nil
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *LogStore) Recent(_ context.Context, userID string, limit int) ([]core.LogEntry, error) {
	return l.collect(limit, func(e core.LogEntry) bool { return e.UserID == userID }), nil
}

func (l *LogStore) RecentAll(_ context.Context, limit int) ([]core.LogEntry, error) {
	return l.collect(limit, func(core.LogEntry) bool { return true }), nil
}

func (l *LogStore) collect(limit int, keep func(core.LogEntry) bool) []core.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.LogEntry
	for i := len(l.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if keep(l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}
