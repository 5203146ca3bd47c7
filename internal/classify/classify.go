package classify

// #region imports
import (
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/lexicon"
)

// #endregion

// #region keywords

var complexTerms = lexicon.NewSet(
	"consciousness", "philosophy", "philosophical", "meaning", "existence", "abstract",
	"theory", "theoretical", "analyze", "analysis", "implications", "ethics", "ethical",
	"epistemology", "metaphysics", "paradox", "complex", "nuanced", "compare", "contrast",
	"tradeoffs", "relationship", "hypothesis", "causality",
)

var simpleTerms = lexicon.NewSet(
	"hi", "hello", "hey", "thanks", "thank", "thx", "yes", "no", "ok", "okay",
	"sure", "bye", "goodbye", "yep", "nope", "cool",
)

// #endregion

// #region classify

// Classify maps raw input to a complexity profile and per-call token budget.
// Pure keyword heuristics, no model call.
func Classify(text string) Result {
	words := lexicon.Words(text)
	wordCount := lexicon.WordCount(text)
	complexCount := complexTerms.CountWords(words)
	simpleCount := simpleTerms.CountWords(words)

	var class Class
	switch {
	case complexCount > 0 || wordCount > 10:
		class = High
	case simpleCount > 0 || wordCount <= 3:
		class = Low
	default:
		class = Medium
	}

	return Result{
		Profile:      ProfileFor(class),
		TokenBudget:  TokenBudget(text),
		WordCount:    wordCount,
		ComplexTerms: complexCount,
		SimpleTerms:  simpleCount,
	}
}

// #endregion

// #region token-budget

// TokenBudget sizes the per-backend output budget from input character length.
func TokenBudget(text string) int {
	n := lexicon.RuneLen(text)
	switch {
	case n <= 50:
		return 100
	case n <= 100:
		return 150
	default:
		return 200
	}
}

// #endregion
