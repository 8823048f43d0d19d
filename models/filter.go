package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for entry dates and filter bounds.
const DateLayout = "2006-01-02"

// Filter narrows a set of entries. Every zero-valued field is "no constraint".
// Dimensions combine with AND; values inside Categories and Types combine with OR.
type Filter struct {
	StartDate  string       `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate    string       `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Categories []string     `json:"categories,omitempty" yaml:"categories,omitempty"`
	Types      []ChangeType `json:"types,omitempty" yaml:"types,omitempty"`
	SearchTerm string       `json:"searchTerm,omitempty" yaml:"searchTerm,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.StartDate == "" && f.EndDate == "" && len(f.Categories) == 0 &&
		len(f.Types) == 0 && f.SearchTerm == ""
}

// Validate checks that date bounds are well-formed calendar dates and that
// every type is a known ChangeType.
func (f Filter) Validate() error {
	if err := validateDate("startDate", f.StartDate); err != nil {
		return err
	}
	if err := validateDate("endDate", f.EndDate); err != nil {
		return err
	}
	for _, t := range f.Types {
		if _, err := ParseChangeType(string(t)); err != nil {
			return err
		}
	}
	return nil
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

// ClampLimit applies a default for non-positive n and caps it at max.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}
