// Package parser turns a changelog listing page into typed entries.
//
// The page is loosely structured: every entry is a heading such as
// "Sep.02 Improvement" followed by a sibling block holding the entry link and,
// usually, a category link. Anything that does not fit that shape is skipped.
package parser

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/changelog-mcp/models"
)

// ErrUnknownMonth means a heading matched the entry pattern but named a month
// outside the fixed table. The page layout no longer matches our assumptions,
// so the whole document is rejected.
var ErrUnknownMonth = errors.New("invalid month abbreviation")

// headingPattern matches a heading with all whitespace removed, e.g. "Sep.02Improvement".
var headingPattern = regexp.MustCompile(`(?i)^([a-z]{3})\.(\d{2})(improvement|release|retired)$`)

var monthTable = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Heading is the date and change type carried by an entry heading.
type Heading struct {
	Month time.Month
	Day   int
	Type  models.ChangeType
}

// ParseHeading classifies heading text. ok is false when the text is not an
// entry heading at all; err is set only for ErrUnknownMonth.
func ParseHeading(text string) (h Heading, ok bool, err error) {
	m := headingPattern.FindStringSubmatch(stripSpace(text))
	if m == nil {
		return Heading{}, false, nil
	}

	month, known := monthTable[strings.ToUpper(m[1])]
	if !known {
		return Heading{}, true, fmt.Errorf("%w: %s", ErrUnknownMonth, m[1])
	}

	day, _ := strconv.Atoi(m[2])
	return Heading{
		Month: month,
		Day:   day,
		Type:  models.ChangeType(strings.ToUpper(m[3])),
	}, true, nil
}

// Date renders the heading as an ISO calendar date in the given year.
// Out-of-range days roll over the way calendar arithmetic does.
func (h Heading) Date(year int) string {
	return time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
}

// Parse extracts every well-formed entry from html. year is the calendar
// year of the page; origin resolves relative links. The result is sorted
// newest first, ties keeping document order.
func Parse(html string, year int, origin string) ([]models.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}

	var entries []models.Entry
	var parseErr error
	doc.Find("h1,h2,h3,h4,h5,h6").EachWithBreak(func(i int, s *goquery.Selection) bool {
		heading, ok, err := ParseHeading(s.Text())
		if err != nil {
			parseErr = err
			return false
		}
		if !ok {
			return true
		}

		if entry, ok := extractEntry(s.Next(), heading, year, base); ok {
			entries = append(entries, entry)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries, nil
}

// extractEntry builds an entry from the content block following a heading.
// ok is false whenever the block lacks a usable title link.
func extractEntry(content *goquery.Selection, heading Heading, year int, base *url.URL) (models.Entry, bool) {
	if content.Length() == 0 {
		return models.Entry{}, false
	}

	links := content.Find("a")
	link := links.First()
	if link.Length() == 0 {
		return models.Entry{}, false
	}

	title := normalizeText(link.Text())
	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return models.Entry{}, false
	}

	category := models.UncategorizedCategory
	categoryURL := ""
	if categoryLink := links.Eq(1); categoryLink.Length() > 0 {
		if text := normalizeText(categoryLink.Text()); text != "" {
			category = text
		}
		if catHref, _ := categoryLink.Attr("href"); strings.TrimSpace(catHref) != "" {
			categoryURL = absolutize(base, strings.TrimSpace(catHref))
		}
	}

	date := heading.Date(year)
	return models.Entry{
		ID:          EntryID(date, heading.Type, title),
		Title:       title,
		URL:         absolutize(base, href),
		Date:        date,
		Type:        heading.Type,
		Category:    category,
		CategoryURL: categoryURL,
	}, true
}

// EntryID derives a content-based identifier: "<date>-<type>-<slug(title)>".
func EntryID(date string, changeType models.ChangeType, title string) string {
	return date + "-" + strings.ToLower(string(changeType)) + "-" + Slug(title)
}

// Slug lowercases s, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens from both ends.
func Slug(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func absolutize(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// normalizeText returns s as a browser renders it: trimmed, with every
// internal whitespace run collapsed to one space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
