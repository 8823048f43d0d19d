// Package stats summarizes how changelog entries are distributed.
package stats

import (
	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/mapreduce"
)

const (
	DefaultTopKeywords = 10
	MaxTopKeywords     = 50
)

// Compute counts entries per change type, category and month ("YYYY-MM")
// and returns the top title keywords. Every change type is present in
// ByType, with zero when absent.
func Compute(entries []models.Entry, top int) models.StatsResponse {
	resp := models.StatsResponse{
		TotalEntries: len(entries),
		ByType:       make(map[string]int, len(models.AllChangeTypes())),
		ByCategory:   make(map[string]int),
		ByMonth:      make(map[string]int),
	}
	for _, t := range models.AllChangeTypes() {
		resp.ByType[string(t)] = 0
	}

	for _, e := range entries {
		resp.ByType[string(e.Type)]++
		resp.ByCategory[e.Category]++
		if len(e.Date) >= len("2006-01") {
			resp.ByMonth[e.Date[:len("2006-01")]]++
		}
	}

	counts := mapreduce.Reduce(mapreduce.MapAll(entries))
	resp.TopKeywords = mapreduce.TopKeywords(counts, top)
	return resp
}
