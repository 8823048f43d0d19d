package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://github.blog"

const listingHTML = `<html><body>
<h1>Changelog</h1>
<h3> Sep . 02
     Improvement </h3>
<div class="entry">
  <a href="/changelog/2025-09-02-copilot-code-review/">  Copilot code
     review now supports more languages </a>
  <a href="https://github.blog/changelog/label/copilot/">COPILOT</a>
</div>
<h3>Sep.05 Release</h3>
<div><a href="https://github.blog/changelog/2025-09-05-actions-arm-runners/">Arm runners for Actions</a>
<a href="/changelog/label/actions/">ACTIONS</a></div>
<h3>Sep.05 Retired</h3>
<div><a href="/changelog/2025-09-05-old-api/">Old API sunset</a></div>
</body></html>`

func TestParse(t *testing.T) {
	entries, err := Parse(listingHTML, 2025, origin)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first; the two Sep 05 entries keep document order.
	assert.Equal(t, "Arm runners for Actions", entries[0].Title)
	assert.Equal(t, "Old API sunset", entries[1].Title)
	assert.Equal(t, "Copilot code review now supports more languages", entries[2].Title)

	release := entries[0]
	assert.Equal(t, "2025-09-05", release.Date)
	assert.Equal(t, models.ChangeTypeRelease, release.Type)
	assert.Equal(t, "ACTIONS", release.Category)
	assert.Equal(t, "https://github.blog/changelog/2025-09-05-actions-arm-runners/", release.URL)
	assert.Equal(t, "https://github.blog/changelog/label/actions/", release.CategoryURL)
	assert.Equal(t, "2025-09-05-release-arm-runners-for-actions", release.ID)

	retired := entries[1]
	assert.Equal(t, models.ChangeTypeRetired, retired.Type)
	assert.Equal(t, models.UncategorizedCategory, retired.Category)
	assert.Equal(t, "", retired.CategoryURL)
	assert.Equal(t, "https://github.blog/changelog/2025-09-05-old-api/", retired.URL)

	improvement := entries[2]
	assert.Equal(t, "2025-09-02", improvement.Date)
	assert.Equal(t, models.ChangeTypeImprovement, improvement.Type)
	assert.Equal(t, "COPILOT", improvement.Category)
	assert.Equal(t, "https://github.blog/changelog/2025-09-02-copilot-code-review/", improvement.URL)
}

func TestParseIDsAreReproducible(t *testing.T) {
	first, err := Parse(listingHTML, 2025, origin)
	require.NoError(t, err)
	second, err := Parse(listingHTML, 2025, origin)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestParseSkipsMalformedUnits(t *testing.T) {
	html := `<body>
<h3>Jan.10 Release</h3>
<div><a href="/changelog/first/">First</a></div>
<h3>Jan.11 Release</h3>
<div><p>No links in this block</p></div>
<h3>Jan.12 Update</h3>
<div><a href="/changelog/wrong-word/">Wrong word</a></div>
<h3>January 13 Release</h3>
<div><a href="/changelog/not-a-date/">Not a date</a></div>
<h3>Jan.14 Release</h3>
<div><a href="/changelog/no-title/">   </a></div>
<h3>Jan.15 Release</h3>
<div><a>No href</a></div>
<h3>Jan.16 Improvement</h3>
<div><a href="/changelog/last/">Last</a></div>
<h3>Jan.17 Release</h3>
</body>`

	entries, err := Parse(html, 2025, origin)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Last", entries[0].Title)
	assert.Equal(t, "2025-01-16", entries[0].Date)
	assert.Equal(t, "First", entries[1].Title)
	assert.Equal(t, "2025-01-10", entries[1].Date)
}

func TestParseCategoryFallbacks(t *testing.T) {
	html := `<body>
<h2>Mar.03 Improvement</h2>
<div><a href="/a/">Text-only category</a><a>Security</a></div>
<h2>Mar.02 Improvement</h2>
<div><a href="/b/">Empty category text</a><a href="/label/x/">  </a></div>
</body>`

	entries, err := Parse(html, 2024, origin)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Security", entries[0].Category)
	assert.Equal(t, "", entries[0].CategoryURL)

	assert.Equal(t, models.UncategorizedCategory, entries[1].Category)
	assert.Equal(t, "https://github.blog/label/x/", entries[1].CategoryURL)
}

func TestParseUnknownMonthAbortsDocument(t *testing.T) {
	html := `<body>
<h3>Jan.10 Release</h3>
<div><a href="/ok/">Fine</a></div>
<h3>Foo.10 Release</h3>
<div><a href="/bad/">Broken assumptions</a></div>
</body>`

	entries, err := Parse(html, 2025, origin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMonth))
	assert.Contains(t, err.Error(), "Foo")
	assert.Nil(t, entries)
}

func TestParseHeading(t *testing.T) {
	tests := map[string]struct {
		text    string
		wantOK  bool
		wantErr bool
		want    Heading
	}{
		"spaced improvement": {
			text:   " Sep . 02 Improvement ",
			wantOK: true,
			want:   Heading{Month: time.September, Day: 2, Type: models.ChangeTypeImprovement},
		},
		"upper case": {
			text:   "DEC.31RELEASE",
			wantOK: true,
			want:   Heading{Month: time.December, Day: 31, Type: models.ChangeTypeRelease},
		},
		"lower case": {
			text:   "may.01 retired",
			wantOK: true,
			want:   Heading{Month: time.May, Day: 1, Type: models.ChangeTypeRetired},
		},
		"single digit day": {text: "Sep.2 Improvement"},
		"other word":       {text: "Sep.02 Announcement"},
		"plain title":      {text: "Latest changes"},
		"unknown month":    {text: "Abc.02 Release", wantOK: true, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok, err := ParseHeading(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeadingDate(t *testing.T) {
	h := Heading{Month: time.February, Day: 29, Type: models.ChangeTypeRelease}
	assert.Equal(t, "2024-02-29", h.Date(2024))
	assert.Equal(t, "2025-03-01", h.Date(2025))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Copilot code review":             "copilot-code-review",
		"  --GitHub Actions: v2!!  ":      "github-actions-v2",
		"Dependabot & npm (beta)":         "dependabot-npm-beta",
		"Ünïcode titles are dropped here": "n-code-titles-are-dropped-here",
		"":                                "",
	}
	for input, want := range tests {
		assert.Equal(t, want, Slug(input), input)
	}
}

func TestEntryID(t *testing.T) {
	assert.Equal(t,
		"2025-09-02-improvement-copilot-code-review",
		EntryID("2025-09-02", models.ChangeTypeImprovement, "Copilot code review"))
}
