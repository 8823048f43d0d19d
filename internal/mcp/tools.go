package mcp

import (
	"context"
	"fmt"
	"sort"
)

// Tool represents a tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Tool names.
const (
	ToolGetEntries    = "get_changelog_entries"
	ToolGetRecent     = "get_recent_entries"
	ToolGetCategories = "get_changelog_categories"
	ToolSearch        = "search_changelog"
	ToolClearCache    = "clear_changelog_cache"
	ToolGetStats      = "get_changelog_stats"
	ToolGetDetails    = "get_entry_details"
)

// Result limits per tool.
const (
	DefaultEntriesLimit = 50
	MaxEntriesLimit     = 500
	DefaultRecentCount  = 10
	MaxRecentCount      = 50
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
)

var changeTypeEnum = []interface{}{"IMPROVEMENT", "RELEASE", "RETIRED"}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// GetToolDefinitions returns every tool this server offers, in a stable order.
func (s *Server) GetToolDefinitions() []Tool {
	tools := []Tool{
		{
			Name:        ToolGetEntries,
			Description: "Get GitHub changelog entries with optional filtering by date, category, type, or search term",
			InputSchema: objectSchema(map[string]interface{}{
				"startDate": map[string]interface{}{
					"type":        "string",
					"description": "Start date filter (YYYY-MM-DD format), inclusive",
				},
				"endDate": map[string]interface{}{
					"type":        "string",
					"description": "End date filter (YYYY-MM-DD format), inclusive",
				},
				"categories": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": `Filter by categories, case-insensitive (e.g., "COPILOT", "ACTIONS")`,
				},
				"types": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string", "enum": changeTypeEnum},
					"description": "Filter by change types",
				},
				"searchTerm": map[string]interface{}{
					"type":        "string",
					"description": "Search term to filter entries by title or category",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Maximum number of entries to return (default: %d, max: %d)", DefaultEntriesLimit, MaxEntriesLimit),
					"default":     DefaultEntriesLimit,
					"maximum":     MaxEntriesLimit,
				},
			}),
		},
		{
			Name:        ToolGetRecent,
			Description: "Get the most recent GitHub changelog entries",
			InputSchema: objectSchema(map[string]interface{}{
				"count": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Number of recent entries to return (default: %d, max: %d)", DefaultRecentCount, MaxRecentCount),
					"default":     DefaultRecentCount,
					"maximum":     MaxRecentCount,
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional category filter",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        changeTypeEnum,
					"description": "Optional type filter",
				},
			}),
		},
		{
			Name:        ToolGetCategories,
			Description: "Get all available changelog categories",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        ToolSearch,
			Description: "Search changelog entries by title or category",
			InputSchema: objectSchema(map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query string",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Maximum number of results (default: %d, max: %d)", DefaultSearchLimit, MaxSearchLimit),
					"default":     DefaultSearchLimit,
					"maximum":     MaxSearchLimit,
				},
			}, "query"),
		},
		{
			Name:        ToolClearCache,
			Description: "Clear the changelog cache to force fresh data on next request",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        ToolGetStats,
			Description: "Summarize changelog entries by type, category and month, with the most frequent title keywords",
			InputSchema: objectSchema(map[string]interface{}{
				"startDate": map[string]interface{}{
					"type":        "string",
					"description": "Start date filter (YYYY-MM-DD format), inclusive",
				},
				"endDate": map[string]interface{}{
					"type":        "string",
					"description": "End date filter (YYYY-MM-DD format), inclusive",
				},
				"top": map[string]interface{}{
					"type":        "number",
					"description": "Number of title keywords to return (default: 10, max: 50)",
					"default":     10,
					"maximum":     50,
				},
			}),
		},
	}

	if s.details != nil {
		tools = append(tools, Tool{
			Name:        ToolGetDetails,
			Description: "Fetch one changelog entry's own page and return its summary, publish time, word count and language",
			InputSchema: objectSchema(map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Entry id as returned by the other tools",
				},
			}, "id"),
		})
	}
	return tools
}

func (s *Server) registerTools() {
	s.tools = map[string]ToolHandler{
		ToolGetEntries:    s.toolGetEntries,
		ToolGetRecent:     s.toolGetRecent,
		ToolGetCategories: s.toolGetCategories,
		ToolSearch:        s.toolSearch,
		ToolClearCache:    s.toolClearCache,
		ToolGetStats:      s.toolGetStats,
	}
	if s.details != nil {
		s.tools[ToolGetDetails] = s.toolGetDetails
	}
}

// ToolNames lists the registered tools, sorted.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallTool runs a tool by name and returns its typed payload. The CLI uses
// it to share one code path with tools/call.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	handler, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return handler(ctx, args)
}
