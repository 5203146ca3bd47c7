package divergence

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestAnalyze_FewerThanTwo(t *testing.T) {
	a := NewAnalyzer()
	for _, texts := range [][]string{nil, {}, {"a single great answer with plenty of distinct content"}} {
		if got := a.Analyze(texts); got != (Metrics{}) {
			t.Fatalf("texts=%v: expected zero metrics, got %+v", texts, got)
		}
	}
}

func TestAnalyze_IdenticalTexts(t *testing.T) {
	text := "Therefore the evidence clearly shows a strong pattern in the quarterly numbers."
	got := NewAnalyzer().Analyze([]string{text, text, text})
	if got != (Metrics{}) {
		t.Fatalf("identical texts should not diverge, got %+v", got)
	}
}

func TestLengthVariance(t *testing.T) {
	a := NewAnalyzer()
	if got := a.LengthVariance([]string{strings.Repeat("x", 100), strings.Repeat("x", 300)}); !near(got, 0.5) {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := a.LengthVariance([]string{"x", strings.Repeat("x", 1001)}); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
}

func TestSentimentDivergence(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"the plan is good and the rest is fine too",
		"the plan is okay and the rest is fine too",
	}
	if got := a.SentimentDivergence(texts); !near(got, 0.5) {
		t.Fatalf("expected 0.5, got %v", got)
	}
	// case-insensitive, whole words only
	texts = []string{"GOOD " + filler(9), "goodness " + filler(9)}
	if got := a.SentimentDivergence(texts); !near(got, 0.5) {
		t.Fatalf("expected 0.5 for whole-word case-insensitive match, got %v", got)
	}
}

func TestTopicDivergence(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		name  string
		texts []string
		want  float64
	}{
		{"disjoint", []string{"alpha bravo charlie", "delta hotel"}, 1},
		{"identical", []string{"apples, bananas!", "Apples bananas"}, 0},
		{"partial", []string{"apples bananas", "apples cherries"}, 2.0 / 3.0},
		{"short-words-only", []string{"a cat sat", "the dog ran"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.TopicDivergence(tt.texts); !near(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLeadingTerms(t *testing.T) {
	terms := LeadingTerms{MinExclusive: 4, Max: 3}.Terms("Rivers, rivers and banks: erosion shapes rivers; floods follow.")
	if diff := cmp.Diff([]string{"rivers", "banks", "erosion"}, terms); diff != "" {
		t.Fatalf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestCoherence(t *testing.T) {
	if got := Coherence(nil); got != 1 {
		t.Fatalf("no pair should be maximal coherence, got %v", got)
	}
	if got := Coherence([][]string{{"x"}}); got != 1 {
		t.Fatalf("single set should be maximal coherence, got %v", got)
	}
	sets := [][]string{{"a", "b"}, {"a", "b"}, {"c"}}
	// pairs: 1, 0, 0
	if got := Coherence(sets); !near(got, 1.0/3.0) {
		t.Fatalf("expected 1/3, got %v", got)
	}
}

func TestToneConsistency(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{"therefore " + filler(19), filler(20)}
	if got := a.ToneConsistency(texts); !near(got, 0.5) {
		t.Fatalf("expected 0.5, got %v", got)
	}
	texts = []string{"perhaps " + filler(19), "certainly " + filler(19)}
	// confidence dimension: -0.05 vs 0.05 -> std 0.05 -> *20 = 1
	if got := a.ToneConsistency(texts); !near(got, 1) {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"A bank is a financial institution that accepts deposits. It is helpful and clear.",
		"The bank of a river is the land alongside it; erosion can make it difficult to walk.",
		"Perhaps you mean a memory bank? That is uncertain without more context.",
	}
	first := a.Analyze(texts)
	second := a.Analyze(texts)
	if first != second {
		t.Fatalf("analyze not idempotent: %+v vs %+v", first, second)
	}
	for name, v := range map[string]float64{
		"length": first.LengthVariance, "sentiment": first.SentimentDivergence,
		"topic": first.TopicDivergence, "tone": first.ToneConsistency,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s out of range: %v", name, v)
		}
	}
}

func TestAnalyzer_PluggableScorer(t *testing.T) {
	a := NewAnalyzer()
	a.Sentiment = ScorerFunc(func(text string) float64 {
		if strings.Contains(text, "bueno") {
			return 0.1
		}
		return 0
	})
	if got := a.SentimentDivergence([]string{"muy bueno", "malo"}); !near(got, 0.5) {
		t.Fatalf("expected swapped lexicon to drive metric, got %v", got)
	}
}
