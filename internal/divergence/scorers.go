package divergence

// #region imports
import (
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/lexicon"
)

// #endregion

// #region lexicons

var (
	PositiveWords = lexicon.NewSet(
		"good", "great", "excellent", "positive", "helpful", "clear", "confident", "strong",
	)
	NegativeWords = lexicon.NewSet(
		"bad", "poor", "difficult", "negative", "unclear", "uncertain", "weak", "problematic",
	)
	AnalyticalWords = lexicon.NewSet(
		"analyze", "analysis", "data", "evidence", "logic", "logical", "reason", "therefore",
		"consider", "examine", "structure", "systematic", "factor", "factors", "conclude",
	)
	EmpatheticWords = lexicon.NewSet(
		"feel", "feelings", "understand", "sorry", "care", "support", "appreciate",
		"empathize", "concern", "comfort", "hear", "together",
	)
	ConfidentWords = lexicon.NewSet(
		"certainly", "definitely", "clearly", "absolutely", "sure", "always", "undoubtedly", "surely",
	)
	UncertainWords = lexicon.NewSet(
		"maybe", "perhaps", "might", "possibly", "unclear", "uncertain", "probably", "unsure",
	)
)

// #endregion

// #region char-length

// CharLength scores a text by its character count.
type CharLength struct{}

// Score implements TextScorer.
func (CharLength) Score(text string) float64 {
	return float64(lexicon.RuneLen(text))
}

// #endregion

// #region lexicon-balance

// LexiconBalance scores (plus matches - minus matches) / word count.
type LexiconBalance struct {
	Plus  lexicon.Set
	Minus lexicon.Set
}

// Score implements TextScorer. Empty text scores 0.
func (b LexiconBalance) Score(text string) float64 {
	n := lexicon.WordCount(text)
	if n == 0 {
		return 0
	}
	words := lexicon.Words(text)
	return float64(b.Plus.CountWords(words)-b.Minus.CountWords(words)) / float64(n)
}

// #endregion

// #region lexicon-density

// LexiconDensity scores lexicon matches / word count.
type LexiconDensity struct {
	Words lexicon.Set
}

// Score implements TextScorer. Empty text scores 0.
func (d LexiconDensity) Score(text string) float64 {
	n := lexicon.WordCount(text)
	if n == 0 {
		return 0
	}
	return float64(d.Words.Count(text)) / float64(n)
}

// #endregion

// #region leading-terms

// LeadingTerms extracts the first Max distinct words longer than MinExclusive
// characters, lower-cased with punctuation stripped.
type LeadingTerms struct {
	MinExclusive int
	Max          int
}

// Terms implements TermExtractor.
func (l LeadingTerms) Terms(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range lexicon.Words(text) {
		if len(out) >= l.Max {
			break
		}
		if lexicon.RuneLen(w) <= l.MinExclusive || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// #endregion
