package mapreduce

import (
	"sort"
	"strings"

	"github.com/dtnitsch/changelog-mcp/models"
)

// isValidKeyword drops tokens with unmatched delimiters or quotes, which
// show up when titles quote code.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	pairs := [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}}
	for _, p := range pairs {
		if strings.Contains(word, p[0]) != strings.Contains(word, p[1]) {
			return false
		}
	}

	if strings.Count(word, "\"")%2 != 0 || strings.Count(word, "`")%2 != 0 {
		return false
	}
	return true
}

// TopKeywords returns the n most frequent valid keywords, ordered by count
// descending and then alphabetically so the result is deterministic.
func TopKeywords(wordCounts map[string]int, n int) []models.KeywordCount {
	ss := make([]models.KeywordCount, 0, len(wordCounts))
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, models.KeywordCount{Word: k, Count: v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	if n < 0 {
		n = 0
	}
	if len(ss) > n {
		ss = ss[:n]
	}
	return ss
}
