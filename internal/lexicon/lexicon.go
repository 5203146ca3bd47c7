package lexicon

import (
	"strings"
	"unicode"
)

// #region set

// Set is a lower-cased vocabulary matched against whole words.
type Set map[string]bool

// NewSet builds a Set from the given words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = true
	}
	return s
}

// Has reports whether w (already lower-cased) is in the set.
func (s Set) Has(w string) bool {
	return s[w]
}

// Count returns the number of word occurrences in text that belong to the set.
func (s Set) Count(text string) int {
	return s.CountWords(Words(text))
}

// CountWords is Count over pre-tokenized words.
func (s Set) CountWords(words []string) int {
	n := 0
	for _, w := range words {
		if s[w] {
			n++
		}
	}
	return n
}

// #endregion set

// #region tokenize

// Words splits text into lowercase tokens of letters, digits and inner apostrophes.
// Punctuation is stripped.
func Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// WordCount is the whitespace-token count of text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Distinct returns the words in first-seen order without duplicates.
func Distinct(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// RuneLen is the character length of s.
func RuneLen(s string) int {
	return len([]rune(s))
}

// #endregion tokenize

// #region stopwords

// Stopwords contains common English words excluded from topic matching.
var Stopwords = NewSet(
	"the", "a", "an", "is", "are", "was", "were", "do", "does", "did",
	"have", "has", "had", "be", "been", "being", "will", "would", "could", "should",
	"may", "might", "can", "shall", "not", "no", "and", "or", "but", "if",
	"then", "than", "so", "as", "at", "by", "for", "from", "in", "into",
	"of", "on", "to", "with", "about", "up", "out", "it", "its", "this",
	"that", "what", "which", "who", "how", "when", "where", "why", "you", "me",
	"i", "my", "your", "we", "they", "he", "she", "her", "him", "us",
	"them", "tell", "there", "their", "these", "those", "just", "also", "very",
	"some", "like", "please", "thanks", "really", "want", "need",
)

// #endregion stopwords
