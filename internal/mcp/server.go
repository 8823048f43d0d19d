// Package mcp exposes the changelog as Model Context Protocol tools over
// line-delimited JSON-RPC 2.0 on stdio.
package mcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/changelog-mcp/models"
)

// Changelog is the query surface the tools call into.
type Changelog interface {
	MergedEntries(ctx context.Context) ([]models.Entry, error)
	Entries(ctx context.Context, filter models.Filter) (models.QueryResult, error)
	Lookup(ctx context.Context, id string) (models.Entry, error)
	ClearCache()
}

// Describer enriches one entry from its own page.
type Describer interface {
	Describe(ctx context.Context, entry models.Entry) (models.DetailsResponse, error)
}

// ToolHandler runs one tool with already-decoded arguments.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Server is an MCP server bound to one changelog.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	reader  *bufio.Reader
	logger  *slog.Logger
	version string
	now     func() time.Time

	changelog Changelog
	details   Describer
	tools     map[string]ToolHandler
}

// NewServer creates a server reading stdin and writing stdout. details may
// be nil, in which case get_entry_details is not offered.
func NewServer(version string, changelog Changelog, details Describer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		logger:    logger,
		version:   version,
		now:       time.Now,
		changelog: changelog,
		details:   details,
	}
	s.registerTools()
	return s
}

// Start processes messages until EOF or ctx is done. A tool error never
// stops the loop. ctx is checked between messages only; a caller that needs
// Start to return while it is blocked reading must close the input.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("MCP server starting", "version", s.version, "tools", len(s.tools))

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("MCP server shutting down", "reason", err.Error())
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			var malformed *errMalformed
			if errors.As(err, &malformed) {
				s.logger.Warn("dropping malformed message", "error", err.Error())
				if werr := s.writeMessage(NewErrorMessage(nil, ParseError, err.Error(), nil)); werr != nil {
					return werr
				}
				continue
			}
			return err
		}

		response := s.handleMessage(ctx, msg)
		if response == nil {
			continue
		}
		if err := s.writeMessage(response); err != nil {
			s.logger.Error("error writing response", "error", err.Error())
			return err
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.reader = nil
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}
