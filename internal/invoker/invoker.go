package invoker

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// #endregion

// #region errors

var (
	// ErrEmptyResponse is returned when a backend answers with no text.
	ErrEmptyResponse = errors.New("backend returned empty response")
	// ErrUnknownBackend is returned by Scripted when no outcome is queued for a backend.
	ErrUnknownBackend = errors.New("no scripted outcome for backend")
)

// #endregion

// #region types

// Request is one generation call against a single backend.
type Request struct {
	Backend         string
	SystemPrompt    string
	UserText        string
	MaxOutputTokens int
}

// Result is the generated text and its output-token count.
type Result struct {
	Text         string
	OutputTokens int
}

// Invoker generates text from one backend. Timeouts are the invoker's concern.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Result, error)
}

// Func adapts a plain function to Invoker.
type Func func(ctx context.Context, req Request) (Result, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// #endregion

// #region scripted

// Outcome is one queued answer for Scripted. A non-empty Err makes the call fail.
type Outcome struct {
	Text         string `json:"text"`
	OutputTokens int    `json:"output_tokens"`
	Err          string `json:"error,omitempty"`
}

// Scripted replays queued outcomes per backend, in order. Safe for concurrent use.
type Scripted struct {
	mu     sync.Mutex
	queues map[string][]Outcome
	calls  []Request
}

// NewScripted creates an empty scripted invoker.
func NewScripted() *Scripted {
	return &Scripted{queues: make(map[string][]Outcome)}
}

// Script appends outcomes to the queue of backend.
func (s *Scripted) Script(backend string, outcomes ...Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[backend] = append(s.queues[backend], outcomes...)
}

// Invoke pops the next outcome queued for req.Backend.
func (s *Scripted) Invoke(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	q := s.queues[req.Backend]
	if len(q) == 0 {
		return Result{}, fmt.Errorf("%s: %w", req.Backend, ErrUnknownBackend)
	}
	next := q[0]
	s.queues[req.Backend] = q[1:]

	if next.Err != "" {
		return Result{}, fmt.Errorf("%s: %s", req.Backend, next.Err)
	}
	if strings.TrimSpace(next.Text) == "" {
		return Result{}, fmt.Errorf("%s: %w", req.Backend, ErrEmptyResponse)
	}
	tokens := next.OutputTokens
	if tokens == 0 {
		tokens = estimateTokens(next.Text)
	}
	return Result{Text: next.Text, OutputTokens: tokens}, nil
}

// Calls returns a copy of every request received so far.
func (s *Scripted) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// #endregion

// #region helpers

// estimateTokens approximates output tokens when a backend reports none.
func estimateTokens(text string) int {
	return len(strings.Fields(text))
}

// #endregion
