package divergence

// #region metrics

// Metrics holds the four disagreement measures, each in [0,1].
type Metrics struct {
	LengthVariance      float64 `json:"length_variance"`
	SentimentDivergence float64 `json:"sentiment_divergence"`
	TopicDivergence     float64 `json:"topic_divergence"`
	ToneConsistency     float64 `json:"tone_consistency"`
}

// #endregion

// #region scorer-interfaces

// TextScorer maps a response text to the scalar a metric spreads over.
type TextScorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a function to TextScorer.
type ScorerFunc func(text string) float64

// Score calls f.
func (f ScorerFunc) Score(text string) float64 {
	return f(text)
}

// TermExtractor yields the topical term set of a response.
type TermExtractor interface {
	Terms(text string) []string
}

// #endregion
