package integrity

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/divergence"
)

func TestScore_ZeroDivergenceIsFull(t *testing.T) {
	s := NewScorer(DefaultWeights())
	if got := s.Score(divergence.Metrics{}); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestScore_AllMaxDivergence(t *testing.T) {
	s := NewScorer(DefaultWeights())
	m := divergence.Metrics{LengthVariance: 1, SentimentDivergence: 1, TopicDivergence: 1, ToneConsistency: 1}
	if got := s.Score(m); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestScore_WeightedSum(t *testing.T) {
	s := NewScorer(DefaultWeights())
	m := divergence.Metrics{TopicDivergence: 0.8}
	want := 1 - 0.25*0.8
	if got := s.Score(m); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScore_ClampProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	heavy := NewScorer(Weights{Length: 1, Sentiment: 1, Topic: 1, Tone: 1})
	std := NewScorer(DefaultWeights())
	for i := 0; i < 1000; i++ {
		m := divergence.Metrics{
			LengthVariance:      r.Float64(),
			SentimentDivergence: r.Float64(),
			TopicDivergence:     r.Float64(),
			ToneConsistency:     r.Float64(),
		}
		for _, s := range []*Scorer{heavy, std} {
			if v := s.Score(m); v < 0 || v > 1 {
				t.Fatalf("score %v out of [0,1] for %+v", v, m)
			}
		}
	}
}

func TestScore_Monotonic(t *testing.T) {
	s := NewScorer(DefaultWeights())
	base := divergence.Metrics{LengthVariance: 0.2, SentimentDivergence: 0.2, TopicDivergence: 0.2, ToneConsistency: 0.2}
	bumps := []divergence.Metrics{
		{LengthVariance: 0.3, SentimentDivergence: 0.2, TopicDivergence: 0.2, ToneConsistency: 0.2},
		{LengthVariance: 0.2, SentimentDivergence: 0.3, TopicDivergence: 0.2, ToneConsistency: 0.2},
		{LengthVariance: 0.2, SentimentDivergence: 0.2, TopicDivergence: 0.3, ToneConsistency: 0.2},
		{LengthVariance: 0.2, SentimentDivergence: 0.2, TopicDivergence: 0.2, ToneConsistency: 0.3},
	}
	for i, m := range bumps {
		if s.Score(m) >= s.Score(base) {
			t.Errorf("bump %d: score did not decrease", i)
		}
	}
}

func TestScore_NearIdenticalResponses(t *testing.T) {
	// two responses of similar length with no sentiment, topic or tone spread
	s := NewScorer(DefaultWeights())
	m := divergence.Metrics{LengthVariance: 0.02}
	if got := s.Score(m); got <= 0.8 {
		t.Fatalf("expected strong consensus, got %v", got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  Strength
	}{
		{0.95, StrengthStrong},
		{0.8, StrengthModerate},
		{0.51, StrengthModerate},
		{0.5, StrengthWeak},
		{0, StrengthWeak},
	}
	for _, tt := range tests {
		if got := Label(tt.score, 0.8, 0.5); got != tt.want {
			t.Errorf("Label(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
