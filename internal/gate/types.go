package gate

import (
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/divergence"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
)

// #region disposition
// Disposition is the framing of the final answer.
type Disposition string

const (
	Proceed         Disposition = "proceed"
	ProceedWithNote Disposition = "proceed_with_note"
	Clarify         Disposition = "clarify"
)

// #endregion disposition

// #region reason
// Reason names the rule that produced a decision.
type Reason string

const (
	AmbiguityResolvedByContext    Reason = "AMBIGUITY_RESOLVED_BY_CONTEXT"
	EpistemicAmbiguity            Reason = "EPISTEMIC_AMBIGUITY"
	ComplexAmbiguityResolved      Reason = "COMPLEX_AMBIGUITY_RESOLVED"
	CombinedHighDivergence        Reason = "COMBINED_HIGH_DIVERGENCE"
	SingleWordResolved            Reason = "SINGLE_WORD_RESOLVED"
	SingleWordHighDivergence      Reason = "SINGLE_WORD_HIGH_DIVERGENCE"
	NormalArchitecturalDifference Reason = "NORMAL_ARCHITECTURAL_DIFFERENCE"
	LowIntegrity                  Reason = "LOW_INTEGRITY"
	FallbackSingleBackend         Reason = "FALLBACK_SINGLE_BACKEND"
)

// #endregion reason

// #region gate-config
// GateConfig holds thresholds for gate decisions.
type GateConfig struct {
	// AmbiguityTopic is the topic divergence at or above which ambiguous
	// surfaces are checked against history.
	AmbiguityTopic    float64
	CombinedTopic     float64
	CombinedSentiment float64
	SingleWordTopic   float64
	// ShortInputWords is the word count at or below which input counts as
	// an ambiguous surface.
	ShortInputWords int
	// ProceedThreshold and NoteThreshold frame proceeding answers by integrity.
	ProceedThreshold float64
	NoteThreshold    float64
}

// DefaultGateConfig returns the fixed empirical thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		AmbiguityTopic:    0.8,
		CombinedTopic:     0.95,
		CombinedSentiment: 0.2,
		SingleWordTopic:   0.9,
		ShortInputWords:   3,
		ProceedThreshold:  0.8,
		NoteThreshold:     0.5,
	}
}

// #endregion gate-config

// #region context-resolver
// ContextResolver is the history lookup the gate consults on suspected ambiguity.
type ContextResolver interface {
	Resolve(input string, history []session.Turn) resolver.Resolution
}

// #endregion context-resolver

// #region input
// Input is everything the gate needs for one request.
type Input struct {
	Text         string
	Metrics      divergence.Metrics
	Integrity    float64
	History      []session.Turn
	ResponseText string // primary response chosen by the ranker
}

// #endregion input

// #region verdict
// Verdict is the epistemic stage outcome, before integrity framing.
type Verdict struct {
	Clarify    bool
	Reason     Reason
	Message    string               // clarification text when Clarify
	Resolution *resolver.Resolution // nil when the resolver was not consulted
}

// #endregion verdict

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Disposition       Disposition          `json:"disposition"`
	Reason            Reason               `json:"reason"`
	EpistemicReason   Reason               `json:"epistemic_reason"`
	ResponseText      string               `json:"response_text,omitempty"`
	ClarificationText string               `json:"clarification_text,omitempty"`
	Note              string               `json:"note,omitempty"`
	ConsensusStrength integrity.Strength   `json:"consensus_strength"`
	Resolution        *resolver.Resolution `json:"resolution,omitempty"`
}

// #endregion gate-decision
