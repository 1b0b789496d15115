package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/session"
)

// Store keeps histories for the lifetime of the process
type Store struct {
	sessions map[string]session.History
	mu       sync.RWMutex
}

func NewInMemorySessionStore() *Store {
	return &Store{sessions: make(map[string]session.History)}
}

func (store *Store) Create(_ context.Context) (string, error) {
	id := uuid.NewString()
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[id] = session.History{}
	return id, nil
}

// History returns a copy, so callers never observe later appends
func (store *Store) History(_ context.Context, id string) (session.History, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	h, ok := store.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return append(session.History(nil), h...), nil
}

func (store *Store) Append(_ context.Context, id string, msgs ...models.Message) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	h, ok := store.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	store.sessions[id] = h.Append(msgs...)
	return nil
}
