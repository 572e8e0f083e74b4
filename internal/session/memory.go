// Package session provides Store implementations for per-user wizard
// state: an in-memory map for single-process runs and tests, and a Redis
// store for deployments that need sessions to survive restarts.
package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-docwizard/pkg/wizard"
)

// MemoryStore keeps sessions in process memory. Load hands out deep copies
// so a transition computed on a loaded session never leaks into the stored
// state before Save.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*wizard.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*wizard.Session)}
}

// Load returns a copy of the user's session, or nil when none exists.
func (s *MemoryStore) Load(_ context.Context, userID int64) (*wizard.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID].Clone(), nil
}

// Save replaces the user's session atomically.
func (s *MemoryStore) Save(_ context.Context, userID int64, session *wizard.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session.Clone()
	return nil
}

// Clear removes the user's session. Clearing an absent session is not an
// error.
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var _ wizard.Store = (*MemoryStore)(nil)
