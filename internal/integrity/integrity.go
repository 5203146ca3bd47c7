package integrity

import (
	"math"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/divergence"
)

// #region weights
// Weights scales each divergence metric into the divergence score.
type Weights struct {
	Length    float64 `yaml:"length" json:"length"`
	Sentiment float64 `yaml:"sentiment" json:"sentiment"`
	Topic     float64 `yaml:"topic" json:"topic"`
	Tone      float64 `yaml:"tone" json:"tone"`
}

// DefaultWeights returns the fixed empirical weights.
func DefaultWeights() Weights {
	return Weights{Length: 0.15, Sentiment: 0.30, Topic: 0.25, Tone: 0.30}
}

// #endregion weights

// #region strength
// Strength is the human-readable consensus label derived from the score.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// FallbackScore is the synthetic integrity of a single-backend fallback result.
const FallbackScore = 0.5

// #endregion strength

// #region scorer
// Scorer reduces divergence metrics to a single consensus scalar.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Divergence is the weighted sum of the four metrics.
func (s *Scorer) Divergence(m divergence.Metrics) float64 {
	w := s.weights
	return w.Length*m.LengthVariance +
		w.Sentiment*m.SentimentDivergence +
		w.Topic*m.TopicDivergence +
		w.Tone*m.ToneConsistency
}

// Score returns 1 - Divergence(m), clamped to [0,1].
func (s *Scorer) Score(m divergence.Metrics) float64 {
	v := 1 - s.Divergence(m)
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Label maps a score to a consensus-strength label using the proceed and
// note thresholds.
func Label(score, proceed, note float64) Strength {
	switch {
	case score > proceed:
		return StrengthStrong
	case score > note:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// #endregion scorer
