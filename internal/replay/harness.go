package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/rank"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

// #region types
// Interaction represents a single recorded turn for replay.
type Interaction struct {
	TurnID    string
	SessionID string
	Input     string
	Symbolic  symbolic.Context
	Outcomes  map[string][]invoker.Outcome
}

// ReplayResult captures the outcome of replaying one interaction through the full pipeline.
type ReplayResult struct {
	TurnID      string
	Disposition string // "proceed" | "proceed_with_note" | "clarify" | "error"
	Reason      string
	Integrity   float64
	Fallback    bool
	Backend     string
	Err         error

	// Full pipeline output (zero on error)
	Result pipeline.Result
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns int
	Proceeds   int
	Notes      int
	Clarifies  int
	Errors     int
	Fallbacks  int
}

// Mismatch is a turn whose outcome differs from the fixture expectation.
type Mismatch struct {
	TurnID string
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %s, got %s", m.TurnID, m.Want, m.Got)
}

// firstCandidate breaks ranker ties deterministically.
type firstCandidate struct{}

func (firstCandidate) IntN(int) int { return 0 }

// #endregion types

// #region replay
// Replay drives every interaction through a real pipeline backed by scripted
// invokers, zero call spacing and deterministic tie-breaks. Operates entirely
// in-memory.
func Replay(ctx context.Context, f *Fixture) ([]ReplayResult, error) {
	sessions := session.NewMemoryStore(session.DefaultLimit)
	for id, turns := range f.Sessions {
		for _, t := range turns {
			if err := sessions.Append(ctx, id, t); err != nil {
				return nil, fmt.Errorf("seed session %s: %w", id, err)
			}
		}
	}

	inv := invoker.NewScripted()
	cfg := f.Config
	p := pipeline.New(pipeline.Options{
		Backends:          cfg.Backends,
		DefaultBackend:    cfg.DefaultBackend,
		FallbackMaxTokens: cfg.FallbackMaxTokens,
		SystemPrompt:      cfg.SystemPrompt,
		Invoker:           inv,
		Scheduler:         collector.Sequential{},
		Sessions:          sessions,
		Ranker:            rank.New(rank.Designations{Brevity: cfg.BrevityBackends, Nuance: cfg.NuanceBackends}, firstCandidate{}),
		Gate:              gate.NewGate(cfg.ToGateConfig(), resolver.New()),
	})

	results := make([]ReplayResult, 0, len(f.Interactions))
	for i := range f.Interactions {
		inter := f.Interactions[i].ToInteraction(f.SessionID)

		// 1. Queue this turn's outcomes
		for backend, outcomes := range inter.Outcomes {
			inv.Script(backend, outcomes...)
		}

		// 2. Process
		res, err := p.Process(ctx, pipeline.Request{
			InputText:       inter.Input,
			SymbolicContext: inter.Symbolic,
			SessionID:       inter.SessionID,
		})
		if err != nil {
			if !errors.Is(err, pipeline.ErrProcessing) {
				return results, fmt.Errorf("turn %s: %w", inter.TurnID, err)
			}
			results = append(results, ReplayResult{TurnID: inter.TurnID, Disposition: "error", Err: err})
			continue
		}

		// 3. Record
		results = append(results, ReplayResult{
			TurnID:      inter.TurnID,
			Disposition: string(res.Disposition),
			Reason:      string(res.EpistemicReason),
			Integrity:   res.IntegrityScore,
			Fallback:    res.FallbackUsed,
			Backend:     res.ChosenBackend,
			Result:      res,
		})
	}
	return results, nil
}

// Check compares results against the fixture expectations by turn id.
func Check(results []ReplayResult, expected []FixtureExpectedResult) []Mismatch {
	byTurn := make(map[string]ReplayResult, len(results))
	for _, r := range results {
		byTurn[r.TurnID] = r
	}
	var out []Mismatch
	for _, e := range expected {
		r, ok := byTurn[e.TurnID]
		if !ok {
			out = append(out, Mismatch{TurnID: e.TurnID, Want: e.Disposition, Got: "missing"})
			continue
		}
		want := describe(e.Disposition, e.Reason, e.Fallback)
		reason := r.Reason
		if e.Reason == "" {
			reason = ""
		}
		got := describe(r.Disposition, reason, r.Fallback)
		if want != got {
			out = append(out, Mismatch{TurnID: e.TurnID, Want: want, Got: got})
		}
	}
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalTurns: len(results)}
	for _, r := range results {
		switch r.Disposition {
		case string(gate.Proceed):
			s.Proceeds++
		case string(gate.ProceedWithNote):
			s.Notes++
		case string(gate.Clarify):
			s.Clarifies++
		case "error":
			s.Errors++
		}
		if r.Fallback {
			s.Fallbacks++
		}
	}
	return s
}

func describe(disposition, reason string, fallback bool) string {
	s := disposition
	if reason != "" {
		s += "/" + reason
	}
	if fallback {
		s += " (fallback)"
	}
	return s
}

// #endregion replay
