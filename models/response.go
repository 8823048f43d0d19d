package models

// EntriesResponse answers a filtered listing.
type EntriesResponse struct {
	Entries       []Entry  `json:"entries" yaml:"entries"`
	TotalCount    int      `json:"totalCount" yaml:"totalCount"`
	ReturnedCount int      `json:"returnedCount" yaml:"returnedCount"`
	Categories    []string `json:"categories" yaml:"categories"`
}

// RecentResponse answers a most-recent listing.
type RecentResponse struct {
	Entries []Entry `json:"entries" yaml:"entries"`
	Count   int     `json:"count" yaml:"count"`
}

// CategoriesResponse lists every category present in the feed.
type CategoriesResponse struct {
	Categories []string `json:"categories" yaml:"categories"`
	Count      int      `json:"count" yaml:"count"`
}

// SearchResponse answers a free-text search.
type SearchResponse struct {
	Query         string  `json:"query" yaml:"query"`
	Entries       []Entry `json:"entries" yaml:"entries"`
	TotalMatches  int     `json:"totalMatches" yaml:"totalMatches"`
	ReturnedCount int     `json:"returnedCount" yaml:"returnedCount"`
}

// ClearCacheResponse acknowledges a cache flush.
type ClearCacheResponse struct {
	Message   string `json:"message" yaml:"message"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// KeywordCount is one word and its frequency across entry titles.
type KeywordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// StatsResponse summarizes the distribution of entries.
type StatsResponse struct {
	TotalEntries int            `json:"totalEntries" yaml:"totalEntries"`
	ByType       map[string]int `json:"byType" yaml:"byType"`
	ByCategory   map[string]int `json:"byCategory" yaml:"byCategory"`
	ByMonth      map[string]int `json:"byMonth" yaml:"byMonth"`
	TopKeywords  []KeywordCount `json:"topKeywords" yaml:"topKeywords"`
}

// DetailsResponse enriches one entry with content from its own page.
type DetailsResponse struct {
	Entry         Entry  `json:"entry" yaml:"entry"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Byline        string `json:"byline,omitempty" yaml:"byline,omitempty"`
	SiteName      string `json:"siteName,omitempty" yaml:"siteName,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty" yaml:"publishedTime,omitempty"`
	WordCount     int    `json:"wordCount" yaml:"wordCount"`
	Language      string `json:"language" yaml:"language"`
	Preview       string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}
