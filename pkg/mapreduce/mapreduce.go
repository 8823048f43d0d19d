package mapreduce

import (
	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/analytics"
)

// Map generates a word frequency map for a single entry title.
func Map(entry models.Entry) map[string]int {
	return analytics.WordFrequency(entry.Title)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// MapAll runs Map over every entry.
func MapAll(entries []models.Entry) []map[string]int {
	intermediate := make([]map[string]int, 0, len(entries))
	for _, e := range entries {
		intermediate = append(intermediate, Map(e))
	}
	return intermediate
}
