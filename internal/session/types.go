package session

import (
	"context"
	"time"
)

// DefaultLimit is the per-session history cap. Oldest turns are evicted first.
const DefaultLimit = 10

// #region turn
// Turn is one user/assistant exchange.
type Turn struct {
	Timestamp     time.Time         `json:"timestamp"`
	UserText      string            `json:"user_text"`
	AssistantText string            `json:"assistant_text"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// #endregion turn

// #region store
// Store holds bounded, append-only conversation history keyed by session id.
// Callers serialize requests per session; a Store only guarantees its own
// internal consistency across sessions.
type Store interface {
	// Get returns the session history, most recent last. Unknown sessions
	// yield an empty history and no error.
	Get(ctx context.Context, sessionID string) ([]Turn, error)
	// Append adds a turn and evicts the oldest beyond the cap.
	Append(ctx context.Context, sessionID string, turn Turn) error
	// Evict drops the whole session history.
	Evict(ctx context.Context, sessionID string) error
}

// #endregion store
