package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/rhinoterm/internal/logx"
	"pkt.systems/rhinoterm/schema"
)

type liveSession struct {
	id      schema.SessionID
	remote  string
	started time.Time
	cancel  context.CancelFunc
}

// sessionStore tracks the web terminals currently attached.
type sessionStore struct {
	mu    sync.Mutex
	items map[schema.SessionID]liveSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{items: make(map[schema.SessionID]liveSession)}
}

// open registers a session and returns its context and a release func.
// The context ends when parent ends, on release, or on closeAll.
func (s *sessionStore) open(parent context.Context, id schema.SessionID, remote string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	s.items[id] = liveSession{id: id, remote: remote, started: time.Now(), cancel: cancel}
	active := len(s.items)
	s.mu.Unlock()
	logx.WithSession(ctx, id).Debug("web session registered", "active", active)
	return ctx, func() {
		cancel()
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
	}
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// closeAll cancels every attached session.
func (s *sessionStore) closeAll() int {
	s.mu.Lock()
	items := make([]liveSession, 0, len(s.items))
	for _, entry := range s.items {
		items = append(items, entry)
	}
	s.mu.Unlock()
	for _, entry := range items {
		entry.cancel()
	}
	return len(items)
}
