package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	assert.Equal(t,
		[]string{"node.js", "20", "pre-release", "for", "actions"},
		Words(`"Node.js 20" pre-release, for Actions!`))
	assert.Empty(t, Words("  -- !! "))
}

func TestWordFrequency(t *testing.T) {
	got := WordFrequency("The new Copilot CLI is now generally available. Copilot CLI v2 in 3 steps")
	assert.Equal(t, map[string]int{
		"copilot": 2,
		"cli":     2,
		"v2":      1,
		"steps":   1,
	}, got)
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("available"))
	assert.False(t, IsStopword("copilot"))
}
