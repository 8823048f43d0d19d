package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/changelog"
	"github.com/dtnitsch/changelog-mcp/pkg/detector"
	"github.com/dtnitsch/changelog-mcp/pkg/fetcher"
	"github.com/dtnitsch/changelog-mcp/pkg/parser"
)

// Error types reported in ErrorInfo.
const (
	ErrorTypeInvalidParams = "invalid_params"
	ErrorTypeFetch         = "fetch_error"
	ErrorTypeExtraction    = "extraction_error"
	ErrorTypeTimeout       = "timeout"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeInternal      = "internal_error"
	ErrorTypeUnknownTool   = "unknown_tool"
)

const errorSuggestionClearCache = "Call clear_changelog_cache and retry"

// ArgumentError rejects a tool argument before any work is done.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// ErrUnknownTool is returned by CallTool for an unregistered name.
var ErrUnknownTool = errors.New("unknown tool")

// ErrorInfoFor classifies err into the structured shape returned to callers.
func ErrorInfoFor(err error) models.ErrorInfo {
	info := models.ErrorInfo{Type: ErrorTypeInternal, Message: err.Error()}

	var argErr *ArgumentError
	var statusErr *fetcher.StatusError
	switch {
	case errors.As(err, &argErr):
		info.Type = ErrorTypeInvalidParams
		info.SuggestedActions = []string{"Check the tool's input schema via tools/list"}
	case errors.Is(err, ErrUnknownTool):
		info.Type = ErrorTypeUnknownTool
		info.SuggestedActions = []string{"List available tools via tools/list"}
	case errors.Is(err, context.DeadlineExceeded):
		info.Type = ErrorTypeTimeout
		info.SuggestedActions = []string{"Retry the request", "Raise --timeout if the changelog is slow to respond"}
	case errors.Is(err, changelog.ErrNotFound):
		info.Type = ErrorTypeNotFound
		info.SuggestedActions = []string{"Look up current ids with get_changelog_entries", errorSuggestionClearCache}
	case errors.Is(err, parser.ErrUnknownMonth):
		info.Type = ErrorTypeExtraction
		info.SuggestedActions = []string{"The changelog page layout may have changed"}
	case errors.As(err, &statusErr), errors.Is(err, detector.ErrForeignHost), errors.Is(err, changelog.ErrCurrentPeriod):
		info.Type = ErrorTypeFetch
		info.SuggestedActions = []string{"Retry later", errorSuggestionClearCache}
	}
	return info
}
