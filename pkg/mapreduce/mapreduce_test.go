package mapreduce

import (
	"testing"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/stretchr/testify/assert"
)

func TestMapReduce(t *testing.T) {
	entries := []models.Entry{
		{Title: "Dependabot grouped updates for npm"},
		{Title: "Dependabot: security updates for pnpm"},
		{Title: "npm provenance"},
	}

	got := Reduce(MapAll(entries))
	assert.Equal(t, map[string]int{
		"dependabot": 2,
		"grouped":    1,
		"npm":        2,
		"security":   1,
		"pnpm":       1,
		"provenance": 1,
	}, got)
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{
		"zeta":    3,
		"alpha":   3,
		"beta":    5,
		"fn(x":    9,
		"key:":    9,
		"`quoted": 9,
	}

	assert.Equal(t, []models.KeywordCount{
		{Word: "beta", Count: 5},
		{Word: "alpha", Count: 3},
		{Word: "zeta", Count: 3},
	}, TopKeywords(counts, 10))

	assert.Equal(t, []models.KeywordCount{{Word: "beta", Count: 5}}, TopKeywords(counts, 1))
	assert.Empty(t, TopKeywords(counts, 0))
	assert.Empty(t, TopKeywords(counts, -1))
}
