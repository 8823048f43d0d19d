// Package query filters changelog entries and derives the category list.
//
// A Filter is compiled into an ordered list of stages, one per constrained
// dimension. An entry must pass every stage to be kept. Input order is
// preserved, so an already newest-first slice stays newest-first.
package query

import (
	"sort"
	"strings"

	"github.com/dtnitsch/changelog-mcp/models"
)

// stage reports whether an entry survives one filter dimension.
type stage func(models.Entry) bool

// Run filters entries and returns the matches together with the category
// list of the unfiltered input.
func Run(entries []models.Entry, filter models.Filter) models.QueryResult {
	matched := Apply(entries, filter)
	return models.QueryResult{
		Entries:    matched,
		TotalCount: len(matched),
		Categories: Categories(entries),
	}
}

// Apply returns the entries that pass every stage built from filter. The
// input slice is never modified.
func Apply(entries []models.Entry, filter models.Filter) []models.Entry {
	stages := compile(filter)

	out := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if passes(entry, stages) {
			out = append(out, entry)
		}
	}
	return out
}

// Categories returns the distinct category values, sorted by byte order.
func Categories(entries []models.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	categories := make([]string, 0)
	for _, entry := range entries {
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		categories = append(categories, entry.Category)
	}
	sort.Strings(categories)
	return categories
}

func passes(entry models.Entry, stages []stage) bool {
	for _, keep := range stages {
		if !keep(entry) {
			return false
		}
	}
	return true
}

// compile turns a filter into stages in a fixed order: start date, end
// date, categories, types, search term.
func compile(filter models.Filter) []stage {
	var stages []stage

	if filter.StartDate != "" {
		start := filter.StartDate
		stages = append(stages, func(e models.Entry) bool { return e.Date >= start })
	}

	if filter.EndDate != "" {
		end := filter.EndDate
		stages = append(stages, func(e models.Entry) bool { return e.Date <= end })
	}

	if len(filter.Categories) > 0 {
		wanted := make(map[string]struct{}, len(filter.Categories))
		for _, c := range filter.Categories {
			wanted[strings.ToLower(c)] = struct{}{}
		}
		stages = append(stages, func(e models.Entry) bool {
			_, ok := wanted[strings.ToLower(e.Category)]
			return ok
		})
	}

	if len(filter.Types) > 0 {
		wanted := make(map[models.ChangeType]struct{}, len(filter.Types))
		for _, t := range filter.Types {
			wanted[t] = struct{}{}
		}
		stages = append(stages, func(e models.Entry) bool {
			_, ok := wanted[e.Type]
			return ok
		})
	}

	if filter.SearchTerm != "" {
		term := strings.ToLower(filter.SearchTerm)
		stages = append(stages, func(e models.Entry) bool {
			return strings.Contains(strings.ToLower(e.Title), term) ||
				strings.Contains(strings.ToLower(e.Category), term)
		})
	}

	return stages
}
