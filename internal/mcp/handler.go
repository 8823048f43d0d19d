package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// handleMessage processes an incoming MCP message and returns a response,
// or nil for notifications.
func (s *Server) handleMessage(ctx context.Context, msg *MCPMessage) *MCPMessage {
	if msg.Jsonrpc != "2.0" {
		if msg.IsNotification() {
			return nil
		}
		return NewErrorMessage(msg.Id, InvalidRequest, `Invalid request: jsonrpc must be "2.0"`, nil)
	}

	if msg.IsRequest() {
		return s.handleRequest(ctx, msg)
	}

	if msg.IsNotification() {
		s.logger.Debug("ignoring notification", "method", msg.Method)
		return nil
	}

	// Responses to requests we never send.
	if msg.Id != nil && msg.Method == "" && (msg.Result != nil || msg.Error != nil) {
		s.logger.Debug("ignoring response", "id", msg.Id)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *Server) handleRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	s.logger.Debug("handling request", "method", msg.Method, "id", msg.Id)

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.handleInitialize(msg))
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{"tools": s.GetToolDefinitions()})
	case "tools/call":
		return s.handleCallToolRequest(ctx, msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

func (s *Server) handleInitialize(msg *MCPMessage) *InitializeResult {
	if params, ok := msg.Params.(map[string]interface{}); ok {
		s.logger.Info("MCP server initializing", "clientInfo", params["clientInfo"])
	}
	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    "changelog-mcp",
			Version: s.version,
		},
	}
}

// handleCallToolRequest handles the tools/call request. Unknown tools and
// malformed params are protocol errors; everything the tool itself reports
// comes back as a result with isError set.
func (s *Server) handleCallToolRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	name, ok := params["name"].(string)
	if !ok || name == "" {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: name is required", nil)
	}

	args := map[string]interface{}{}
	if raw, present := params["arguments"]; present && raw != nil {
		args, ok = raw.(map[string]interface{})
		if !ok {
			return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: arguments must be an object", nil)
		}
	}

	s.logger.Info("calling tool", "tool", name, "args", args)

	payload, err := s.CallTool(ctx, name, args)
	if errors.Is(err, ErrUnknownTool) {
		return NewErrorMessage(msg.Id, InvalidParams, fmt.Sprintf("Unknown tool: %s", name), nil)
	}
	if err != nil {
		s.logger.Warn("tool failed", "tool", name, "error", err.Error())
		return NewResultMessage(msg.Id, errorResult(err))
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, fmt.Sprintf("marshal response: %v", err), nil)
	}
	return NewResultMessage(msg.Id, &ToolResult{
		Content: []ContentItem{{Type: "text", Text: string(text)}},
	})
}

func errorResult(err error) *ToolResult {
	text, mErr := json.MarshalIndent(ErrorInfoFor(err), "", "  ")
	if mErr != nil {
		text = []byte(fmt.Sprintf("Error: %v", err))
	}
	return &ToolResult{
		Content: []ContentItem{{Type: "text", Text: string(text)}},
		IsError: true,
	}
}
