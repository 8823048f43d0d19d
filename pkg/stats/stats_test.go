package stats

import (
	"testing"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	entries := []models.Entry{
		{Title: "Copilot code review for Go", Date: "2026-10-09", Type: models.ChangeTypeImprovement, Category: "COPILOT"},
		{Title: "Copilot agent mode is now generally available", Date: "2026-10-02", Type: models.ChangeTypeRelease, Category: "COPILOT"},
		{Title: "Arm runners for Actions", Date: "2026-09-30", Type: models.ChangeTypeRelease, Category: "ACTIONS"},
		{Title: "Actions cache v1 retired", Date: "2025-12-30", Type: models.ChangeTypeRetired, Category: "ACTIONS"},
	}

	got := Compute(entries, 3)

	assert.Equal(t, 4, got.TotalEntries)
	assert.Equal(t, map[string]int{"IMPROVEMENT": 1, "RELEASE": 2, "RETIRED": 1}, got.ByType)
	assert.Equal(t, map[string]int{"COPILOT": 2, "ACTIONS": 2}, got.ByCategory)
	assert.Equal(t, map[string]int{"2026-10": 2, "2026-09": 1, "2025-12": 1}, got.ByMonth)

	require.Len(t, got.TopKeywords, 3)
	assert.Equal(t, []models.KeywordCount{
		{Word: "actions", Count: 2},
		{Word: "copilot", Count: 2},
		{Word: "agent", Count: 1},
	}, got.TopKeywords)
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, DefaultTopKeywords)

	assert.Equal(t, 0, got.TotalEntries)
	assert.Equal(t, map[string]int{"IMPROVEMENT": 0, "RELEASE": 0, "RETIRED": 0}, got.ByType)
	assert.Empty(t, got.ByCategory)
	assert.Empty(t, got.ByMonth)
	assert.Empty(t, got.TopKeywords)
}
