// Package models defines the data structures shared by the extractor, the
// query engine and the command surfaces.
package models

import (
	"fmt"
	"strings"
)

// ChangeType is the kind of change announced by a changelog entry.
type ChangeType string

const (
	ChangeTypeImprovement ChangeType = "IMPROVEMENT"
	ChangeTypeRelease     ChangeType = "RELEASE"
	ChangeTypeRetired     ChangeType = "RETIRED"
)

// UncategorizedCategory is used when an entry carries no category link text.
const UncategorizedCategory = "Uncategorized"

// AllChangeTypes returns every valid change type in display order.
func AllChangeTypes() []ChangeType {
	return []ChangeType{ChangeTypeImprovement, ChangeTypeRelease, ChangeTypeRetired}
}

// ParseChangeType normalizes s (any case, surrounding space ignored) into a
// ChangeType. Anything outside the closed set is an error.
func ParseChangeType(s string) (ChangeType, error) {
	ct := ChangeType(strings.ToUpper(strings.TrimSpace(s)))
	switch ct {
	case ChangeTypeImprovement, ChangeTypeRelease, ChangeTypeRetired:
		return ct, nil
	}
	return "", fmt.Errorf("unknown change type %q (valid: IMPROVEMENT, RELEASE, RETIRED)", s)
}

// Entry is a single parsed changelog record.
type Entry struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	URL         string     `json:"url" yaml:"url"`
	Date        string     `json:"date" yaml:"date"` // YYYY-MM-DD
	Type        ChangeType `json:"type" yaml:"type"`
	Category    string     `json:"category" yaml:"category"`
	CategoryURL string     `json:"categoryUrl" yaml:"categoryUrl"`
}

// QueryResult is the outcome of running a Filter over a merged entry set.
type QueryResult struct {
	Entries    []Entry  `json:"entries" yaml:"entries"`
	TotalCount int      `json:"totalCount" yaml:"totalCount"`
	Categories []string `json:"categories" yaml:"categories"` // from the unfiltered set
}
