package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                    `json:"description"`
	SessionID       string                    `json:"session_id"`
	Config          FixtureConfig             `json:"config"`
	Sessions        map[string][]session.Turn `json:"sessions"` // seeded history per session id
	Interactions    []FixtureInteraction      `json:"interactions"`
	ExpectedResults []FixtureExpectedResult   `json:"expected_results"`
}

// FixtureConfig is the pipeline configuration of a replay run.
type FixtureConfig struct {
	Backends          []string          `json:"backends"`
	DefaultBackend    string            `json:"default_backend"`
	FallbackMaxTokens int               `json:"fallback_max_tokens"`
	SystemPrompt      string            `json:"system_prompt"`
	BrevityBackends   []string          `json:"brevity_backends"`
	NuanceBackends    []string          `json:"nuance_backends"`
	Thresholds        FixtureThresholds `json:"thresholds"`
}

// FixtureThresholds mirrors the gate integrity thresholds with JSON tags.
type FixtureThresholds struct {
	Proceed float64 `json:"proceed"`
	Note    float64 `json:"note"`
}

// FixtureInteraction is one user input with the scripted backend outcomes.
// An outcome list may hold two entries for the default backend when the
// turn exercises the fallback path.
type FixtureInteraction struct {
	TurnID    string                       `json:"turn_id"`
	SessionID string                       `json:"session_id,omitempty"` // defaults to the fixture session
	Input     string                       `json:"input"`
	Mode      string                       `json:"mode,omitempty"`
	Tone      string                       `json:"tone,omitempty"`
	Outcomes  map[string][]invoker.Outcome `json:"outcomes"`
}

// FixtureExpectedResult captures the expected outcome per turn. An empty
// Reason is not checked.
type FixtureExpectedResult struct {
	TurnID      string `json:"turn_id"`
	Disposition string `json:"disposition"` // "proceed" | "proceed_with_note" | "clarify" | "error"
	Reason      string `json:"reason,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Config.Backends) == 0 {
		return nil, fmt.Errorf("fixture %s: no backends", path)
	}
	return &f, nil
}

// ToGateConfig maps fixture thresholds onto the gate defaults. Zero
// thresholds keep the defaults.
func (fc *FixtureConfig) ToGateConfig() gate.GateConfig {
	g := gate.DefaultGateConfig()
	if fc.Thresholds.Proceed > 0 {
		g.ProceedThreshold = fc.Thresholds.Proceed
	}
	if fc.Thresholds.Note > 0 {
		g.NoteThreshold = fc.Thresholds.Note
	}
	return g
}

// ToInteraction converts a FixtureInteraction to a domain Interaction.
func (fi *FixtureInteraction) ToInteraction(defaultSession string) Interaction {
	sessionID := fi.SessionID
	if sessionID == "" {
		sessionID = defaultSession
	}
	return Interaction{
		TurnID:    fi.TurnID,
		SessionID: sessionID,
		Input:     fi.Input,
		Symbolic:  symbolic.Context{Mode: fi.Mode, Tone: fi.Tone},
		Outcomes:  fi.Outcomes,
	}
}

// #endregion fixture-loader
