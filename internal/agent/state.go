package agent

import (
	"sync"

	"github.com/homeledger/homeledger/internal/models"
)

// SessionStore holds per-session conversation state. Implementations must
// be safe for concurrent use across sessions; the workflow engine
// serializes turns within a session.
type SessionStore interface {
	// Create initializes state for a session. Recreating an existing
	// session overwrites it.
	Create(sessionID, userID string) *models.ConversationState
	// Get returns the state for a session, or false when absent.
	Get(sessionID string) (*models.ConversationState, bool)
	// Update replaces the stored state wholesale.
	Update(sessionID string, state *models.ConversationState)
	// Clear removes a session; no-op when absent.
	Clear(sessionID string)
}

// MemoryStore is an in-process SessionStore backed by a mutex-guarded map.
// Sessions live until cleared or the process exits; there is no expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ConversationState
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.ConversationState)}
}

func (s *MemoryStore) Create(sessionID, userID string) *models.ConversationState {
	state := models.NewConversationState(sessionID, userID)

	s.mu.Lock()
	s.sessions[sessionID] = state
	s.mu.Unlock()

	return state
}

func (s *MemoryStore) Get(sessionID string) (*models.ConversationState, bool) {
	s.mu.RLock()
	state, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	return state, ok
}

func (s *MemoryStore) Update(sessionID string, state *models.ConversationState) {
	s.mu.Lock()
	s.sessions[sessionID] = state
	s.mu.Unlock()
}

func (s *MemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
