package pipeline

import (
	"context"
	"errors"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/classify"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/divergence"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/rank"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

// ErrProcessing is returned when every backend and the fallback failed.
var ErrProcessing = errors.New("processing failed")

// #region request
// Request is one user input to process.
type Request struct {
	InputText       string           `json:"input_text"`
	SymbolicContext symbolic.Context `json:"symbolic_context"`
	SessionID       string           `json:"session_id"`
}

// #endregion request

// #region result
// Result is the caller-facing outcome. Clarify results carry
// ClarificationText and no ResponseText.
type Result struct {
	RequestID         string               `json:"request_id"`
	Disposition       gate.Disposition     `json:"disposition"`
	ResponseText      string               `json:"response_text,omitempty"`
	Note              string               `json:"note,omitempty"`
	ClarificationText string               `json:"clarification_text,omitempty"`
	EpistemicReason   gate.Reason          `json:"epistemic_reason"`
	IntegrityScore    float64              `json:"integrity_score"`
	ConsensusStrength integrity.Strength   `json:"consensus_strength"`
	DivergenceMetrics divergence.Metrics   `json:"divergence_metrics"`
	ChosenBackend     string               `json:"chosen_backend,omitempty"`
	FallbackUsed      bool                 `json:"fallback_used"`
	Class             classify.Class       `json:"class"`
	Resolution        *resolver.Resolution `json:"resolution,omitempty"`
	Ranking           []rank.Scored        `json:"ranking,omitempty"`
	FailedBackends    []string             `json:"failed_backends,omitempty"`
}

// Text returns what the user sees: the clarification or the response plus
// its note.
func (r Result) Text() string {
	if r.Disposition == gate.Clarify {
		return r.ClarificationText
	}
	if r.Note != "" {
		return r.ResponseText + "\n\n" + r.Note
	}
	return r.ResponseText
}

// #endregion result

// #region recorder
// Recorder receives one provenance entry per processed request.
type Recorder interface {
	Record(ctx context.Context, entry logging.DecisionEntry) error
}

// #endregion recorder
