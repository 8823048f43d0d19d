package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize is the maximum size for a single inbound message.
const MaxMessageSize = 1024 * 1024

// errMalformed marks a line that was read but could not be decoded.
type errMalformed struct{ err error }

func (e *errMalformed) Error() string { return e.err.Error() }
func (e *errMalformed) Unwrap() error { return e.err }

// readLine returns the next line without its terminator. A line longer than
// MaxMessageSize is consumed to its end and reported as malformed so the
// following message starts clean.
func (s *Server) readLine() ([]byte, error) {
	if s.reader == nil {
		s.reader = bufio.NewReaderSize(s.stdin, 64*1024)
	}

	var line []byte
	oversized := false
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if !oversized {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > MaxMessageSize {
				oversized = true
				line = nil
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !oversized && len(line) == 0 {
				return nil, io.EOF
			}
		default:
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}

		if oversized {
			return nil, &errMalformed{fmt.Errorf("message exceeds %d bytes", MaxMessageSize)}
		}
		return bytes.TrimRight(line, "\r\n"), nil
	}
}

// readMessage reads one line-delimited JSON-RPC message. Blank lines are
// skipped.
func (s *Server) readMessage() (*MCPMessage, error) {
	for {
		line, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		s.logger.Debug("received message", "bytes", len(line))

		var msg MCPMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, &errMalformed{fmt.Errorf("error parsing JSON-RPC message: %w", err)}
		}
		return &msg, nil
	}
}

// writeMessage writes one JSON-RPC message followed by a newline.
func (s *Server) writeMessage(msg *MCPMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling JSON-RPC message: %w", err)
	}

	s.logger.Debug("sending message", "raw", string(data))

	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("error writing to stdout: %w", err)
	}
	return nil
}
