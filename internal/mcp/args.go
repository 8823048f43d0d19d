package mcp

import (
	"fmt"
	"math"

	"github.com/dtnitsch/changelog-mcp/models"
)

// Arguments arrive as decoded JSON: strings, float64 numbers, []interface{}
// arrays. Absent and null values both mean "not given".

func stringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Field: name, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	return s, nil
}

func stringListArg(args map[string]interface{}, name string) ([]string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, &ArgumentError{Field: name, Reason: "must be an array of strings"}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ArgumentError{Field: name, Reason: fmt.Sprintf("item %d must be a string", i)}
		}
		out = append(out, s)
	}
	return out, nil
}

// intArg returns 0 when the argument is absent.
func intArg(args map[string]interface{}, name string) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, &ArgumentError{Field: name, Reason: fmt.Sprintf("must be a number, got %T", v)}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &ArgumentError{Field: name, Reason: "must be a whole number"}
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	return int(f), nil
}

func changeTypesArg(args map[string]interface{}, name string) ([]models.ChangeType, error) {
	raw, err := stringListArg(args, name)
	if err != nil {
		return nil, err
	}
	types := make([]models.ChangeType, 0, len(raw))
	for _, r := range raw {
		t, err := models.ParseChangeType(r)
		if err != nil {
			return nil, &ArgumentError{Field: name, Reason: err.Error()}
		}
		types = append(types, t)
	}
	return types, nil
}

// filterArgs reads the shared filter fields of get_changelog_entries.
func filterArgs(args map[string]interface{}) (models.Filter, error) {
	var f models.Filter
	var err error

	if f.StartDate, err = stringArg(args, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = stringArg(args, "endDate"); err != nil {
		return f, err
	}
	if f.Categories, err = stringListArg(args, "categories"); err != nil {
		return f, err
	}
	if f.Types, err = changeTypesArg(args, "types"); err != nil {
		return f, err
	}
	if f.SearchTerm, err = stringArg(args, "searchTerm"); err != nil {
		return f, err
	}
	if err := f.Validate(); err != nil {
		return f, &ArgumentError{Reason: err.Error()}
	}
	return f, nil
}
