package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/lexicon"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
)

// #region vocabulary
var (
	TechVocabulary = lexicon.NewSet(
		"react", "vue", "angular", "javascript", "typescript", "python", "golang", "java",
		"rust", "node", "docker", "kubernetes", "sql", "database", "api", "server", "linux",
		"git", "css", "html", "npm", "webpack", "django", "flask", "postgres", "redis",
		"aws", "terraform", "programming", "compiler",
	)

	problemKeywords = lexicon.NewSet("error", "bug", "issue", "problem", "crash", "fail", "broken")
	pronouns        = lexicon.NewSet("this", "that", "it")
	helpVerbs       = lexicon.NewSet("fix", "solve", "help")

	problemPhrase = regexp.MustCompile(`\b([a-z0-9][a-z0-9+#.-]*)\s+(error|bug|issue|problem|crash|fail|broken)\b`)
)

// #endregion vocabulary

// #region resolver
// Resolver decides whether recent history already disambiguates an input.
type Resolver struct {
	Window    int // turns inspected, most recent
	MaxTopics int
	Senses    map[string][]Sense
}

// New returns a resolver inspecting the last 3 turns.
func New() *Resolver {
	return &Resolver{Window: 3, MaxTopics: 5, Senses: DefaultSenses()}
}

// Resolve applies the rules in priority order; the first match wins.
func (r *Resolver) Resolve(input string, history []session.Turn) Resolution {
	if len(history) == 0 {
		return Resolution{Resolvable: false, ReasonCode: NoHistory}
	}
	rc := r.Extract(history)
	words := lexicon.Words(input)

	// 1. Pronoun reference
	if pronoun := firstIn(words, pronouns); pronoun != "" && len(rc.TopicWords) > 0 {
		topic := rc.TopicWords[0]
		return Resolution{
			Resolvable:      true,
			ReasonCode:      PronounReference,
			ResolutionText:  fmt.Sprintf("%q refers to %q", pronoun, topic),
			Confidence:      PronounConfidence,
			SupportingTerms: rc.TopicWords,
		}
	}

	// 2. Problem continuity
	if firstIn(words, helpVerbs) != "" && len(rc.ProblemPhrases) > 0 {
		phrase := rc.ProblemPhrases[0]
		return Resolution{
			Resolvable:      true,
			ReasonCode:      ProblemContinuity,
			ResolutionText:  fmt.Sprintf("continuing with the %s", phrase),
			Confidence:      ProblemConfidence,
			SupportingTerms: rc.ProblemPhrases,
		}
	}

	// 3. Single-word contextual mapping
	if lexicon.WordCount(input) == 1 && len(words) == 1 {
		if sense, cues, ok := r.disambiguate(words[0], rc); ok {
			return Resolution{
				Resolvable:      true,
				ReasonCode:      SingleWordContext,
				ResolutionText:  fmt.Sprintf("%q means %s", words[0], sense),
				Confidence:      SingleWordConfidence,
				SupportingTerms: cues,
			}
		}
	}

	return Resolution{Resolvable: false, ReasonCode: InsufficientContext, Confidence: InsufficientConfidence}
}

// #endregion resolver

// #region extract
// Extract collects topic words, problem phrases and technologies from the
// last Window turns. Topic words and problem phrases come from user text;
// technologies and vocabulary also include assistant text.
func (r *Resolver) Extract(history []session.Turn) RecentContext {
	start := len(history) - r.Window
	if start < 0 {
		start = 0
	}
	recent := history[start:]

	rc := RecentContext{Vocabulary: make(map[string]bool)}
	seenTopic := make(map[string]bool)
	seenPhrase := make(map[string]bool)
	seenTech := make(map[string]bool)

	for i := len(recent) - 1; i >= 0; i-- {
		turn := recent[i]
		userWords := lexicon.Words(turn.UserText)

		for j := len(userWords) - 1; j >= 0; j-- {
			w := userWords[j]
			if len(rc.TopicWords) >= r.MaxTopics {
				break
			}
			if seenTopic[w] || !isTopicWord(w) {
				continue
			}
			seenTopic[w] = true
			rc.TopicWords = append(rc.TopicWords, w)
		}

		matches := problemPhrase.FindAllStringSubmatch(strings.ToLower(turn.UserText), -1)
		for j := len(matches) - 1; j >= 0; j-- {
			noun := matches[j][1]
			if lexicon.Stopwords.Has(noun) {
				continue
			}
			phrase := noun + " " + matches[j][2]
			if !seenPhrase[phrase] {
				seenPhrase[phrase] = true
				rc.ProblemPhrases = append(rc.ProblemPhrases, phrase)
			}
		}

		for _, w := range append(userWords, lexicon.Words(turn.AssistantText)...) {
			rc.Vocabulary[w] = true
			if TechVocabulary.Has(w) && !seenTech[w] {
				seenTech[w] = true
				rc.Technologies = append(rc.Technologies, w)
			}
		}
	}
	return rc
}

// #endregion extract

// #region helpers
func isTopicWord(w string) bool {
	if lexicon.RuneLen(w) < 4 {
		return false
	}
	if lexicon.Stopwords.Has(w) || pronouns.Has(w) || TechVocabulary.Has(w) || problemKeywords.Has(w) {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// disambiguate picks the only sense whose cues appear in context.
func (r *Resolver) disambiguate(word string, rc RecentContext) (string, []string, bool) {
	senses, ok := r.Senses[word]
	if !ok {
		return "", nil, false
	}
	var matched []Sense
	var matchedCues [][]string
	for _, s := range senses {
		var cues []string
		if s.TechCue {
			cues = append(cues, rc.Technologies...)
		}
		for _, c := range s.Cues {
			if rc.Vocabulary[c] {
				cues = append(cues, c)
			}
		}
		if len(cues) > 0 {
			matched = append(matched, s)
			matchedCues = append(matchedCues, cues)
		}
	}
	if len(matched) != 1 {
		return "", nil, false
	}
	return matched[0].Meaning, matchedCues[0], true
}

func firstIn(words []string, set lexicon.Set) string {
	for _, w := range words {
		if set.Has(w) {
			return w
		}
	}
	return ""
}

// #endregion helpers
