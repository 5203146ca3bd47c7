package rank

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/classify"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/lexicon"
)

// #region constants
const (
	// TieTolerance is the score window within which responses tie.
	TieTolerance = 0.001
	// ArchitecturalBonus is added when a backend's designation matches the
	// classifier's preference flag.
	ArchitecturalBonus = 0.10
)

var (
	NuanceWords = lexicon.NewSet(
		"consciousness", "philosophy", "abstract", "complex", "nuanced", "sophisticated",
		"conceptual", "theoretical",
	)
	DirectWords = lexicon.NewSet(
		"simply", "basically", "essentially", "directly", "clearly", "straightforward",
	)

	sentenceEnd = regexp.MustCompile(`[.!?]+`)
)

// #endregion constants

// #region ranker
// Ranker scores responses and selects a primary one.
type Ranker struct {
	designations Designations
	rng          RandSource
}

// New creates a ranker. A nil rng uses the math/rand/v2 global source.
func New(d Designations, rng RandSource) *Ranker {
	if rng == nil {
		rng = globalRand{}
	}
	return &Ranker{designations: d, rng: rng}
}

// Score computes the five components, the bonus and the weighted total.
func (r *Ranker) Score(resp collector.ModelResponse, p classify.Profile) Breakdown {
	words := lexicon.Words(resp.Text)
	b := Breakdown{
		Length:     lengthScore(resp.OutputTokenCount, p.OptimalLength),
		Nuance:     math.Min(1, float64(NuanceWords.CountWords(words))/3),
		Efficiency: math.Min(1, float64(DirectWords.CountWords(words))/2),
		Richness:   math.Min(1, float64(longDistinct(words, 4))/25),
		Coherence:  math.Min(1, float64(len(sentenceEnd.FindAllStringIndex(resp.Text, -1)))/4),
	}
	w := WeightsFor(p.Class)
	b.Total = w.Length*b.Length +
		w.Nuance*b.Nuance +
		w.Efficiency*b.Efficiency +
		w.Richness*b.Richness +
		w.Coherence*b.Coherence
	if r.bonus(resp.BackendID, p) {
		b.Bonus = ArchitecturalBonus
		b.Total += ArchitecturalBonus
	}
	return b
}

// Rank scores every response and selects the primary. ok is false only
// when responses is empty.
func (r *Ranker) Rank(responses []collector.ModelResponse, p classify.Profile) (Selection, bool) {
	if len(responses) == 0 {
		return Selection{}, false
	}
	scored := make([]Scored, len(responses))
	for i, resp := range responses {
		scored[i] = Scored{Response: resp, Breakdown: r.Score(resp, p)}
	}
	idx, tied := Select(scored, r.rng)
	return Selection{
		Primary:    scored[idx].Response,
		Breakdown:  scored[idx].Breakdown,
		Candidates: scored,
		Tied:       tied,
	}, true
}

// Select returns the index of the winner and how many entries tied with the
// maximum. Entries within TieTolerance of the max are picked uniformly.
func Select(scored []Scored, rng RandSource) (int, int) {
	if len(scored) == 0 {
		return -1, 0
	}
	best := math.Inf(-1)
	for _, s := range scored {
		best = math.Max(best, s.Breakdown.Total)
	}
	var tied []int
	for i, s := range scored {
		if best-s.Breakdown.Total <= TieTolerance {
			tied = append(tied, i)
		}
	}
	if len(tied) == 1 {
		return tied[0], 1
	}
	return tied[rng.IntN(len(tied))], len(tied)
}

// #endregion ranker

// #region helpers
func (r *Ranker) bonus(backend string, p classify.Profile) bool {
	id := strings.ToLower(backend)
	if p.FavorBrevity && matchesAny(id, r.designations.Brevity) {
		return true
	}
	return p.FavorNuance && matchesAny(id, r.designations.Nuance)
}

func matchesAny(id string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(id, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

func lengthScore(tokens, optimal int) float64 {
	if optimal <= 0 {
		return 0
	}
	diff := math.Abs(float64(tokens - optimal))
	return math.Max(0, 1-diff/float64(optimal))
}

// longDistinct counts distinct words with at least min runes.
func longDistinct(words []string, min int) int {
	n := 0
	for _, w := range lexicon.Distinct(words) {
		if lexicon.RuneLen(w) >= min {
			n++
		}
	}
	return n
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// #endregion helpers
