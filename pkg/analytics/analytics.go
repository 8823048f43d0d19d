package analytics

import (
	"strings"
)

// stopwords are ignored in title word counts. Besides common English words
// the list carries the boilerplate changelog titles are built from.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {},

	"be": {}, "been": {}, "before": {}, "being": {}, "between": {}, "both": {},
	"but": {}, "by": {},

	"can": {}, "could": {},

	"do": {}, "does": {}, "during": {},

	"each": {}, "even": {}, "every": {},

	"for": {}, "from": {},

	"has": {}, "have": {}, "how": {},

	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "it's": {},

	"just": {},

	"more": {}, "most": {}, "much": {}, "must": {}, "my": {},

	"no": {}, "not": {}, "now": {},

	"of": {}, "on": {}, "one": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"out": {}, "over": {},

	"per": {},

	"so": {}, "some": {},

	"than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {},

	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "use": {},

	"via": {},

	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "will": {}, "with": {}, "within": {},
	"without": {},

	"you": {}, "your": {},

	// Changelog boilerplate
	"available": {}, "generally": {}, "new": {},
	"released": {}, "support": {}, "supports": {}, "update": {}, "updates": {},
	"updated": {},
}

// IsStopword reports whether word is ignored in frequency analysis.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// Words lowercases text and splits it into cleaned tokens. Punctuation is
// trimmed from both ends of each token; inner punctuation such as the
// hyphen in "pre-release" or the dot in "node.js" is kept.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.TrimFunc(field, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

// WordFrequency counts the non-stopword tokens of text. Single characters
// and bare numbers are skipped.
func WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, word := range Words(text) {
		if IsStopword(word) || len(word) < 2 || isNumber(word) {
			continue
		}
		frequencies[word]++
	}
	return frequencies
}

func isNumber(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
