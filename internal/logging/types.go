package logging

import "time"

// #region decision-entry
// DecisionEntry is a single row in the decision_log table.
type DecisionEntry struct {
	RequestID     string
	SessionID     string
	Disposition   string // "proceed" | "proceed_with_note" | "clarify" | "error"
	Reason        string
	Integrity     float64
	Fallback      bool
	ChosenBackend string
	PayloadJSON   string
	CreatedAt     time.Time
}

// #endregion decision-entry

// #region decision-record
// DecisionRecord captures the complete pipeline inputs and outputs for one
// request. Serialized as JSON into decision_log.payload_json for replay.
type DecisionRecord struct {
	RequestID string `json:"request_id"`
	Input     string `json:"input"`
	Mode      string `json:"mode"`
	Tone      string `json:"tone"`

	// Classifier output
	Class       string `json:"class"`
	TokenBudget int    `json:"token_budget"`

	// Collector output
	Responses []RecordResponse `json:"responses"`
	Failures  []RecordFailure  `json:"failures,omitempty"`
	Fallback  bool             `json:"fallback"`

	Metrics    RecordMetrics    `json:"metrics"`
	Integrity  float64          `json:"integrity"`
	Thresholds RecordThresholds `json:"thresholds"`

	// Context resolution, present only when the gate consulted history
	Resolution *RecordResolution `json:"resolution,omitempty"`

	// Gate output
	Disposition     string `json:"disposition"`
	Reason          string `json:"reason"`
	EpistemicReason string `json:"epistemic_reason"`
	ChosenBackend   string `json:"chosen_backend,omitempty"`
	TiedCandidates  int    `json:"tied_candidates,omitempty"`
}

// RecordResponse is one successful backend answer with its quality score.
type RecordResponse struct {
	Backend string  `json:"backend"`
	Tokens  int     `json:"tokens"`
	Quality float64 `json:"quality"`
}

// RecordFailure is one skipped backend.
type RecordFailure struct {
	Backend string `json:"backend"`
	Error   string `json:"error"`
}

// RecordMetrics captures the divergence metrics as evaluated.
type RecordMetrics struct {
	LengthVariance      float64 `json:"length_variance"`
	SentimentDivergence float64 `json:"sentiment_divergence"`
	TopicDivergence     float64 `json:"topic_divergence"`
	ToneConsistency     float64 `json:"tone_consistency"`
}

// RecordThresholds captures the gate config active at decision time.
type RecordThresholds struct {
	Proceed        float64 `json:"proceed"`
	Note           float64 `json:"note"`
	AmbiguityTopic float64 `json:"ambiguity_topic"`
}

// RecordResolution captures the resolver verdict.
type RecordResolution struct {
	Resolvable bool    `json:"resolvable"`
	ReasonCode string  `json:"reason_code"`
	Confidence float64 `json:"confidence"`
}

// #endregion decision-record
