package resolver

// #region reason-codes
// ReasonCode explains a resolution outcome.
type ReasonCode string

const (
	NoHistory           ReasonCode = "NO_HISTORY"
	PronounReference    ReasonCode = "PRONOUN_REFERENCE"
	ProblemContinuity   ReasonCode = "PROBLEM_CONTINUITY"
	SingleWordContext   ReasonCode = "SINGLE_WORD_CONTEXT"
	InsufficientContext ReasonCode = "INSUFFICIENT_CONTEXT"
)

// Confidence per rule.
const (
	PronounConfidence      = 0.8
	ProblemConfidence      = 0.7
	SingleWordConfidence   = 0.6
	InsufficientConfidence = 0.1
)

// #endregion reason-codes

// #region resolution
// Resolution is the resolver verdict for one input.
type Resolution struct {
	Resolvable      bool       `json:"resolvable"`
	ReasonCode      ReasonCode `json:"reason_code"`
	ResolutionText  string     `json:"resolution_text,omitempty"` // empty when unresolved
	Confidence      float64    `json:"confidence"`
	SupportingTerms []string   `json:"supporting_terms,omitempty"`
}

// #endregion resolution

// #region recent-context
// RecentContext is what the resolver extracts from the recent turns.
type RecentContext struct {
	TopicWords     []string // most recent first
	ProblemPhrases []string // most recent first, e.g. "react error"
	Technologies   []string
	Vocabulary     map[string]bool // every word seen in the window
}

// #endregion recent-context

// #region senses
// Sense is one reading of an ambiguous single word, chosen when any cue
// appears in the recent context.
type Sense struct {
	Meaning string
	Cues    []string
	// TechCue selects the sense whenever any technology was mentioned.
	TechCue bool
}

// DefaultSenses maps known-ambiguous single words to their readings.
func DefaultSenses() map[string][]Sense {
	return map[string][]Sense{
		"bank": {
			{Meaning: "financial institution", Cues: []string{"money", "account", "loan", "deposit", "credit", "finance", "financial", "payment", "savings", "mortgage"}},
			{Meaning: "river bank", Cues: []string{"river", "water", "stream", "shore", "fishing", "lake", "erosion", "boat"}},
		},
		"run": {
			{Meaning: "execute code", Cues: []string{"script", "program", "command", "terminal", "compile", "build", "test"}, TechCue: true},
			{Meaning: "physical running", Cues: []string{"exercise", "marathon", "jog", "jogging", "fitness", "race", "training", "miles"}},
		},
		"code": {
			{Meaning: "programming source code", Cues: []string{"program", "function", "script", "compile", "debug", "repository"}, TechCue: true},
			{Meaning: "secret code", Cues: []string{"secret", "cipher", "password", "lock", "spy", "encrypted", "decode"}},
		},
	}
}

// #endregion senses
