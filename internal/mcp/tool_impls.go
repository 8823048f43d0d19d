package mcp

import (
	"context"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/query"
	"github.com/dtnitsch/changelog-mcp/pkg/stats"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func firstN(entries []models.Entry, n int) []models.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

// toolGetEntries implements the get_changelog_entries tool
func (s *Server) toolGetEntries(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filter, err := filterArgs(args)
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	limit = models.ClampLimit(limit, DefaultEntriesLimit, MaxEntriesLimit)

	result, err := s.changelog.Entries(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := firstN(result.Entries, limit)
	return models.EntriesResponse{
		Entries:       entries,
		TotalCount:    result.TotalCount,
		ReturnedCount: len(entries),
		Categories:    result.Categories,
	}, nil
}

// toolGetRecent implements the get_recent_entries tool
func (s *Server) toolGetRecent(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	count, err := intArg(args, "count")
	if err != nil {
		return nil, err
	}
	count = models.ClampLimit(count, DefaultRecentCount, MaxRecentCount)

	var filter models.Filter
	category, err := stringArg(args, "category")
	if err != nil {
		return nil, err
	}
	if category != "" {
		filter.Categories = []string{category}
	}

	rawType, err := stringArg(args, "type")
	if err != nil {
		return nil, err
	}
	if rawType != "" {
		t, err := models.ParseChangeType(rawType)
		if err != nil {
			return nil, &ArgumentError{Field: "type", Reason: err.Error()}
		}
		filter.Types = []models.ChangeType{t}
	}

	result, err := s.changelog.Entries(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := firstN(result.Entries, count)
	return models.RecentResponse{Entries: entries, Count: len(entries)}, nil
}

// toolGetCategories implements the get_changelog_categories tool
func (s *Server) toolGetCategories(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	entries, err := s.changelog.MergedEntries(ctx)
	if err != nil {
		return nil, err
	}
	categories := query.Categories(entries)
	return models.CategoriesResponse{Categories: categories, Count: len(categories)}, nil
}

// toolSearch implements the search_changelog tool
func (s *Server) toolSearch(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	q, ok := args["query"].(string)
	if !ok || q == "" {
		return nil, &ArgumentError{Field: "query", Reason: "Search query is required and must be a string"}
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	limit = models.ClampLimit(limit, DefaultSearchLimit, MaxSearchLimit)

	result, err := s.changelog.Entries(ctx, models.Filter{SearchTerm: q})
	if err != nil {
		return nil, err
	}

	entries := firstN(result.Entries, limit)
	return models.SearchResponse{
		Query:         q,
		Entries:       entries,
		TotalMatches:  result.TotalCount,
		ReturnedCount: len(entries),
	}, nil
}

// toolClearCache implements the clear_changelog_cache tool
func (s *Server) toolClearCache(_ context.Context, _ map[string]interface{}) (interface{}, error) {
	s.changelog.ClearCache()
	return models.ClearCacheResponse{
		Message:   "Changelog cache cleared successfully",
		Timestamp: s.now().UTC().Format(isoMillis),
	}, nil
}

// toolGetStats implements the get_changelog_stats tool
func (s *Server) toolGetStats(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var filter models.Filter
	var err error
	if filter.StartDate, err = stringArg(args, "startDate"); err != nil {
		return nil, err
	}
	if filter.EndDate, err = stringArg(args, "endDate"); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, &ArgumentError{Reason: err.Error()}
	}
	top, err := intArg(args, "top")
	if err != nil {
		return nil, err
	}
	top = models.ClampLimit(top, stats.DefaultTopKeywords, stats.MaxTopKeywords)

	result, err := s.changelog.Entries(ctx, filter)
	if err != nil {
		return nil, err
	}
	return stats.Compute(result.Entries, top), nil
}

// toolGetDetails implements the get_entry_details tool
func (s *Server) toolGetDetails(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, &ArgumentError{Field: "id", Reason: "entry id is required and must be a string"}
	}

	entry, err := s.changelog.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details.Describe(ctx, entry)
}
