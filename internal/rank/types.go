package rank

import (
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/classify"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
)

// #region weights
// Weights scales the five component scores into the quality score.
type Weights struct {
	Length     float64
	Nuance     float64
	Efficiency float64
	Richness   float64
	Coherence  float64
}

// WeightsFor returns the complexity-dependent weight set.
func WeightsFor(c classify.Class) Weights {
	if c == classify.High {
		return Weights{Length: 0.15, Nuance: 0.35, Efficiency: 0.05, Richness: 0.25, Coherence: 0.20}
	}
	return Weights{Length: 0.20, Nuance: 0.10, Efficiency: 0.30, Richness: 0.20, Coherence: 0.20}
}

// #endregion weights

// #region breakdown
// Breakdown is the per-response score detail kept for diagnostics.
type Breakdown struct {
	Length     float64 `json:"length"`
	Nuance     float64 `json:"nuance"`
	Efficiency float64 `json:"efficiency"`
	Richness   float64 `json:"richness"`
	Coherence  float64 `json:"coherence"`
	Bonus      float64 `json:"bonus"`
	Total      float64 `json:"total"`
}

// Scored pairs a response with its breakdown.
type Scored struct {
	Response  collector.ModelResponse `json:"response"`
	Breakdown Breakdown               `json:"breakdown"`
}

// Selection is the ranker output.
type Selection struct {
	Primary    collector.ModelResponse `json:"primary"`
	Breakdown  Breakdown               `json:"breakdown"`
	Candidates []Scored                `json:"candidates"`
	Tied       int                     `json:"tied"` // responses within tolerance of the max
}

// #endregion breakdown

// #region designations
// Designations lists backend-id fragments that mark a backend as brevity- or
// nuance-oriented for the architectural bonus.
type Designations struct {
	Brevity []string
	Nuance  []string
}

// #endregion designations

// #region rand-source
// RandSource picks an index in [0,n). *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// #endregion rand-source
