package divergence

// #region imports
import (
	"math"
)

// #endregion

// #region analyzer

// Analyzer computes the divergence metrics over a full response set.
// It holds no state between calls; Analyze is a pure function of its input.
type Analyzer struct {
	Length    TextScorer
	Sentiment TextScorer
	Topic     TermExtractor
	Tone      []TextScorer // one scorer per tone dimension
}

// NewAnalyzer returns an analyzer with the default English lexicons.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Length:    CharLength{},
		Sentiment: LexiconBalance{Plus: PositiveWords, Minus: NegativeWords},
		Topic:     LeadingTerms{MinExclusive: 4, Max: 10},
		Tone: []TextScorer{
			LexiconDensity{Words: AnalyticalWords},
			LexiconDensity{Words: EmpatheticWords},
			LexiconBalance{Plus: ConfidentWords, Minus: UncertainWords},
		},
	}
}

// #endregion

// #region analyze

// Analyze returns all four metrics. Fewer than two texts yield zero metrics.
func (a *Analyzer) Analyze(texts []string) Metrics {
	if len(texts) < 2 {
		return Metrics{}
	}
	return Metrics{
		LengthVariance:      a.LengthVariance(texts),
		SentimentDivergence: a.SentimentDivergence(texts),
		TopicDivergence:     a.TopicDivergence(texts),
		ToneConsistency:     a.ToneConsistency(texts),
	}
}

// LengthVariance is the population std dev of lengths / 200.
func (a *Analyzer) LengthVariance(texts []string) float64 {
	return clamp01(popStdDev(scoreAll(a.Length, texts)) / 200)
}

// SentimentDivergence is the population std dev of sentiment scores * 10.
func (a *Analyzer) SentimentDivergence(texts []string) float64 {
	return clamp01(popStdDev(scoreAll(a.Sentiment, texts)) * 10)
}

// TopicDivergence is 1 - mean pairwise Jaccard similarity of term sets.
func (a *Analyzer) TopicDivergence(texts []string) float64 {
	sets := make([][]string, len(texts))
	for i, t := range texts {
		sets[i] = a.Topic.Terms(t)
	}
	return clamp01(1 - Coherence(sets))
}

// ToneConsistency sums the per-dimension std devs and scales by 20.
func (a *Analyzer) ToneConsistency(texts []string) float64 {
	var sum float64
	for _, dim := range a.Tone {
		sum += popStdDev(scoreAll(dim, texts))
	}
	return clamp01(sum * 20)
}

// #endregion

// #region coherence

// Coherence averages Jaccard similarity over every unordered pair of term
// sets. With no pair it is 1. A pair of empty sets counts as identical.
func Coherence(sets [][]string) float64 {
	if len(sets) < 2 {
		return 1
	}
	var total float64
	pairs := 0
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			total += Jaccard(sets[i], sets[j])
			pairs++
		}
	}
	return total / float64(pairs)
}

// Jaccard is |a ∩ b| / |a ∪ b| over distinct elements.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, x := range a {
		setA[x] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for x := range setA {
		union[x] = true
	}
	inter := 0
	seenB := make(map[string]bool, len(b))
	for _, x := range b {
		if seenB[x] {
			continue
		}
		seenB[x] = true
		if setA[x] {
			inter++
		}
		union[x] = true
	}
	if len(union) == 0 {
		return 1
	}
	return float64(inter) / float64(len(union))
}

// #endregion

// #region helpers

func scoreAll(s TextScorer, texts []string) []float64 {
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = s.Score(t)
	}
	return out
}

// popStdDev is the population standard deviation; 0 for empty input.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
