package gate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/lexicon"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
)

// #region surface-patterns
var (
	ambiguousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(this|that|it|these|those)\s*[?.!]*\s*$`),
		regexp.MustCompile(`^\s*(what|why|how|which|who|where|when)\s*[?.!]*\s*$`),
		regexp.MustCompile(`^\s*(what about|how about|and|what is|what's)\s+(this|that|it)\s*[?.!]*\s*$`),
		regexp.MustCompile(`^\s*(how|what|why|can|could)\b[^.?!]{0,24}\b(this|that|it)\s*[?.!]*\s*$`),
	}

	AmbiguousWords = lexicon.NewSet(
		"bank", "run", "code", "bat", "spring", "match", "pitch", "set", "light", "crane",
		"bark", "rock", "right", "left", "java", "python", "mercury", "apple", "jaguar", "table",
	)
)

// AmbiguousSurface reports whether input looks ambiguous on its face:
// a bare pronoun or question word, a short question about an unnamed
// "this/that/it", a known-ambiguous single word, or at most maxWords words.
func AmbiguousSurface(input string, maxWords int) bool {
	lower := strings.ToLower(input)
	for _, p := range ambiguousPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	words := lexicon.Words(lower)
	if len(words) == 1 && AmbiguousWords.Has(words[0]) {
		return true
	}
	return lexicon.WordCount(input) <= maxWords
}

// #endregion surface-patterns

// #region gate
// Gate decides between answering, answering with a caveat, and asking the
// user to clarify.
type Gate struct {
	config   GateConfig
	resolver ContextResolver
}

// NewGate creates a gate with the given configuration and context resolver.
func NewGate(config GateConfig, r ContextResolver) *Gate {
	return &Gate{config: config, resolver: r}
}

// Config returns the active thresholds.
func (g *Gate) Config() GateConfig {
	return g.config
}

// Epistemic runs the ambiguity rules in order; the first that fires decides.
func (g *Gate) Epistemic(in Input) Verdict {
	m := in.Metrics
	topicPct := m.TopicDivergence * 100

	// 1. Ambiguous surface with high topic divergence
	if m.TopicDivergence >= g.config.AmbiguityTopic && AmbiguousSurface(in.Text, g.config.ShortInputWords) {
		return g.contextGated(in, AmbiguityResolvedByContext, EpistemicAmbiguity,
			fmt.Sprintf("Your question %q could mean quite different things: the answers I got diverged by %.0f%% in topic. "+
				"Could you tell me a bit more about what you mean?", strings.TrimSpace(in.Text), topicPct))
	}

	// 2. Very high topic divergence combined with sentiment spread
	if m.TopicDivergence > g.config.CombinedTopic && m.SentimentDivergence > g.config.CombinedSentiment {
		return g.contextGated(in, ComplexAmbiguityResolved, CombinedHighDivergence,
			fmt.Sprintf("The answers disagreed strongly in both topic (%.0f%%) and sentiment (%.0f%%). "+
				"Could you add some context so I can answer precisely?", topicPct, m.SentimentDivergence*100))
	}

	// 3. Single word with high topic divergence
	if lexicon.WordCount(in.Text) == 1 && m.TopicDivergence > g.config.SingleWordTopic {
		word := strings.Trim(strings.TrimSpace(in.Text), "?!.,")
		return g.contextGated(in, SingleWordResolved, SingleWordHighDivergence,
			fmt.Sprintf("%q has several meanings and the answers went in different directions (%.0f%% topic divergence). "+
				"Which one do you mean?", word, topicPct))
	}

	return Verdict{Reason: NormalArchitecturalDifference}
}

// Decide runs the epistemic stage, then frames a proceeding answer by
// integrity. Low integrity clarifies independently of the epistemic stage.
func (g *Gate) Decide(in Input) GateDecision {
	log := logging.New("gate")
	v := g.Epistemic(in)
	strength := integrity.Label(in.Integrity, g.config.ProceedThreshold, g.config.NoteThreshold)

	d := GateDecision{
		Reason:            v.Reason,
		EpistemicReason:   v.Reason,
		ConsensusStrength: strength,
		Resolution:        v.Resolution,
	}

	switch {
	case v.Clarify:
		d.Disposition = Clarify
		d.ClarificationText = v.Message
	case in.Integrity > g.config.ProceedThreshold:
		d.Disposition = Proceed
		d.ResponseText = in.ResponseText
	case in.Integrity > g.config.NoteThreshold:
		d.Disposition = ProceedWithNote
		d.ResponseText = in.ResponseText
		d.Note = fmt.Sprintf("Note: the models only partly agreed on this answer (%s consensus, integrity %.0f%%).",
			strength, in.Integrity*100)
	default:
		d.Disposition = Clarify
		d.Reason = LowIntegrity
		d.ClarificationText = fmt.Sprintf("I'm getting inconsistent answers on this (integrity %.0f%%). "+
			"Could you rephrase or give me more detail?", in.Integrity*100)
	}

	log.Info("gate decision",
		"disposition", d.Disposition,
		"reason", d.Reason,
		"integrity", in.Integrity,
		"topic_divergence", in.Metrics.TopicDivergence,
	)
	return d
}

// Fallback frames a single-backend degraded answer. Integrity thresholds
// are not applied.
func (g *Gate) Fallback(responseText string) GateDecision {
	return GateDecision{
		Disposition:       ProceedWithNote,
		Reason:            FallbackSingleBackend,
		EpistemicReason:   FallbackSingleBackend,
		ResponseText:      responseText,
		Note:              "Note: only one model could answer, so this response has not been cross-checked.",
		ConsensusStrength: integrity.Label(integrity.FallbackScore, g.config.ProceedThreshold, g.config.NoteThreshold),
	}
}

// #endregion gate

// #region helpers
// contextGated consults the resolver and proceeds when history resolves the
// ambiguity, otherwise clarifies with msg.
func (g *Gate) contextGated(in Input, resolved, unresolved Reason, msg string) Verdict {
	var res resolver.Resolution
	if g.resolver != nil {
		res = g.resolver.Resolve(in.Text, in.History)
	}
	if res.Resolvable {
		return Verdict{Reason: resolved, Resolution: &res}
	}
	return Verdict{Clarify: true, Reason: unresolved, Message: msg, Resolution: &res}
}

// #endregion helpers
