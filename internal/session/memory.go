package session

import (
	"context"
	"sync"
	"time"
)

// #region memory-store
// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	limit    int
	sessions map[string][]Turn
}

// NewMemoryStore creates a store capped at limit turns per session.
// limit <= 0 uses DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit, sessions: make(map[string][]Turn)}
}

// Get implements Store. The returned slice is a copy.
func (m *MemoryStore) Get(_ context.Context, sessionID string) ([]Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns := m.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, sessionID string, turn Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	turns := append(m.sessions[sessionID], turn)
	if over := len(turns) - m.limit; over > 0 {
		turns = append([]Turn(nil), turns[over:]...)
	}
	m.sessions[sessionID] = turns
	return nil
}

// Evict implements Store.
func (m *MemoryStore) Evict(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// #endregion memory-store
