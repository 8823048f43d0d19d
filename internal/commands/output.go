package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/changelog-mcp/models"
)

// Output formats accepted by --format.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// render writes payload to w in the requested format.
func render(w io.Writer, format string, payload interface{}) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatTable:
		renderTable(w, payload)
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: json, yaml, table)", format)
	}
}

func typeLabel(t models.ChangeType) string {
	label := fmt.Sprintf("%-11s", t)
	switch t {
	case models.ChangeTypeRelease:
		return color.GreenString(label)
	case models.ChangeTypeImprovement:
		return color.CyanString(label)
	case models.ChangeTypeRetired:
		return color.RedString(label)
	}
	return label
}

func entryTable(w io.Writer, entries []models.Entry) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		bold(fmt.Sprintf("%-10s", "Date")),
		bold(fmt.Sprintf("%-11s", "Type")),
		bold(fmt.Sprintf("%-20s", "Category")),
		bold("Title"))
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s  %s  %-20s  %s\n", e.Date, typeLabel(e.Type), e.Category, e.Title)
	}
}

func countTable(w io.Writer, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	for _, k := range keys {
		fmt.Fprintf(w, "  %-24s %d\n", k, counts[k])
	}
}

func renderTable(w io.Writer, payload interface{}) {
	dim := color.New(color.Faint).SprintFunc()

	switch p := payload.(type) {
	case models.EntriesResponse:
		entryTable(w, p.Entries)
		fmt.Fprintln(w, dim(fmt.Sprintf("\nShowing %d of %d entries", p.ReturnedCount, p.TotalCount)))
	case models.RecentResponse:
		entryTable(w, p.Entries)
		fmt.Fprintln(w, dim(fmt.Sprintf("\n%d recent entries", p.Count)))
	case models.SearchResponse:
		entryTable(w, p.Entries)
		fmt.Fprintln(w, dim(fmt.Sprintf("\nShowing %d of %d matches for %q", p.ReturnedCount, p.TotalMatches, p.Query)))
	case models.CategoriesResponse:
		for _, c := range p.Categories {
			fmt.Fprintln(w, c)
		}
		fmt.Fprintln(w, dim(fmt.Sprintf("\nTotal: %d categories", p.Count)))
	case models.StatsResponse:
		fmt.Fprintf(w, "%s %d\n\n", color.New(color.Bold).Sprint("Total entries:"), p.TotalEntries)
		countTable(w, "By type", p.ByType)
		countTable(w, "By category", p.ByCategory)
		countTable(w, "By month", p.ByMonth)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Top keywords"))
		for i, k := range p.TopKeywords {
			fmt.Fprintf(w, "  %2d. %-20s %d\n", i+1, k.Word, k.Count)
		}
	case models.DetailsResponse:
		e := p.Entry
		fmt.Fprintf(w, "%s\n%s  %s  %s\n%s\n\n", color.New(color.Bold).Sprint(e.Title), e.Date, typeLabel(e.Type), e.Category, dim(e.URL))
		if p.Description != "" {
			fmt.Fprintf(w, "%s\n\n", p.Description)
		}
		fmt.Fprintf(w, "Words: %d  Language: %s\n", p.WordCount, p.Language)
		if p.PublishedTime != "" {
			fmt.Fprintf(w, "Published: %s\n", p.PublishedTime)
		}
		if p.Preview != "" {
			fmt.Fprintf(w, "\n%s\n", p.Preview)
		}
	case models.ClearCacheResponse:
		fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), p.Message)
	default:
		data, _ := yaml.Marshal(payload)
		_, _ = w.Write(data)
	}
}
