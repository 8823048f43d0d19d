package models

import (
	"fmt"
	"strconv"
	"time"
)

// Period identifies which reporting period's changelog page to fetch: either
// the sentinel CurrentPeriod or a four-digit year.
type Period string

// CurrentPeriod is the feed's landing page, which lists the current year.
const CurrentPeriod Period = "current"

// YearPeriod returns the period for a calendar year.
func YearPeriod(year int) Period {
	return Period(strconv.Itoa(year))
}

// ParsePeriod accepts "current" or a four-digit year.
func ParsePeriod(s string) (Period, error) {
	if s == "" || s == string(CurrentPeriod) {
		return CurrentPeriod, nil
	}
	if len(s) != 4 {
		return "", fmt.Errorf("invalid period %q: expected a four-digit year or %q", s, CurrentPeriod)
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", fmt.Errorf("invalid period %q: expected a four-digit year or %q", s, CurrentPeriod)
	}
	return Period(s), nil
}

// IsCurrent reports whether p is the CurrentPeriod sentinel.
func (p Period) IsCurrent() bool {
	return p == CurrentPeriod || p == ""
}

// Year resolves the calendar year entries of this period belong to. The
// current period resolves against now.
func (p Period) Year(now time.Time) int {
	if p.IsCurrent() {
		return now.Year()
	}
	y, err := strconv.Atoi(string(p))
	if err != nil {
		return now.Year()
	}
	return y
}

// CacheKey is the cache slot for the period's extracted entries.
func (p Period) CacheKey() string {
	if p.IsCurrent() {
		return "changelog_" + string(CurrentPeriod)
	}
	return "changelog_" + string(p)
}

func (p Period) String() string {
	if p == "" {
		return string(CurrentPeriod)
	}
	return string(p)
}
