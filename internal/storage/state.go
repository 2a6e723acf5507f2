package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// Compile-time interface check.
var _ domain.StateStore = (*MemoryStateStore)(nil)

// MemoryStateStore keeps per-user conversation state in memory. Safe for
// concurrent access. A restart drops all in-progress dialogues, which is
// acceptable: they were never persisted.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[int64]*domain.ConversationState
	log    *logger.Logger
}

// NewMemoryStateStore creates an empty state store.
func NewMemoryStateStore(log *logger.Logger) *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[int64]*domain.ConversationState),
		log:    log,
	}
}

// Load returns the active state for a user.
func (s *MemoryStateStore) Load(ctx context.Context, userID int64) (*domain.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

// Save stores the state for a user, replacing any previous one.
func (s *MemoryStateStore) Save(ctx context.Context, userID int64, st *domain.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("user %d enters %s state", userID, st.Kind)
	s.states[userID] = st
	return nil
}

// Clear removes the state for a user. Clearing an absent state is a no-op.
func (s *MemoryStateStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[userID]; ok {
		s.log.Debug("user %d leaves dialogue state", userID)
		delete(s.states, userID)
	}
	return nil
}
