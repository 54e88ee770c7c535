package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vijay-prabhu/jobradar/internal/config"
	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/runner"
)

// ServerName is reported to clients during initialize
const ServerName = "jobradar"

// Server implements an MCP server over stdio
type Server struct {
	db       *database.DB
	config   *config.Config
	runner   *runner.Runner
	version  string
	handlers map[string]ToolHandler
	now      func() time.Time
}

// ToolHandler is a function that handles a tool call
type ToolHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// JSON-RPC 2.0 types
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    struct {
		Tools     struct{} `json:"tools"`
		Resources struct{} `json:"resources"`
	} `json:"capabilities"`
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a new MCP server
func New(db *database.DB, cfg *config.Config, r *runner.Runner, version string) *Server {
	s := &Server{
		db:       db,
		config:   cfg,
		runner:   r,
		version:  version,
		handlers: make(map[string]ToolHandler),
		now:      time.Now,
	}
	s.registerHandlers()
	return s
}

// Start runs the MCP server on stdio
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		response := s.handleMessage(ctx, line)
		if response != nil {
			output, err := json.Marshal(response)
			if err != nil {
				slog.Error("failed to encode response", "err", err)
				continue
			}
			fmt.Fprintln(w, string(output))
		}
	}
}

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// methodHandler answers one JSON-RPC method
type methodHandler func(s *Server, ctx context.Context, params json.RawMessage) (interface{}, *rpcError)

var methods = map[string]methodHandler{
	"initialize":     (*Server).initialize,
	"tools/list":     (*Server).listTools,
	"tools/call":     (*Server).callTool,
	"resources/list": (*Server).listResources,
	"resources/read": (*Server).readResource,
}

func (s *Server) handleMessage(ctx context.Context, msg string) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal([]byte(msg), &req); err != nil {
		return failure(nil, codeParseError, "Parse error")
	}

	// Notifications get no response
	if req.Method == "initialized" || strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	method, ok := methods[req.Method]
	if !ok {
		return failure(req.ID, codeMethodNotFound, "Method not found")
	}

	result, rpcErr := method(s, ctx, req.Params)
	if rpcErr != nil {
		return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func failure(id interface{}, code int, message string) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

func (s *Server) initialize(context.Context, json.RawMessage) (interface{}, *rpcError) {
	result := initializeResult{ProtocolVersion: "2024-11-05"}
	result.ServerInfo.Name = ServerName
	result.ServerInfo.Version = s.version
	return result, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (interface{}, *rpcError) {
	return toolsListResult{Tools: ToolDefinitions}, nil
}

func (s *Server) listResources(context.Context, json.RawMessage) (interface{}, *rpcError) {
	return resourcesListResult{Resources: ResourceDefinitions}, nil
}

// callTool runs a registered tool. Tool failures are reported in the result
// with isError set, not as protocol errors.
func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (interface{}, *rpcError) {
	var params callToolParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	handler, ok := s.handlers[params.Name]
	if !ok {
		return nil, &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("Unknown tool: %s", params.Name)}
	}

	result, err := handler(ctx, params.Arguments)
	if err != nil {
		slog.Debug("tool call failed", "tool", params.Name, "err", err)
		return textResult(err.Error(), true), nil
	}

	if str, ok := result.(string); ok {
		return textResult(str, false), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("failed to encode result: %v", err), true), nil
	}
	return textResult(string(data), false), nil
}

func textResult(text string, isError bool) callToolResult {
	return callToolResult{
		Content: []contentItem{{Type: "text", Text: text}},
		IsError: isError,
	}
}

func (s *Server) readResource(ctx context.Context, raw json.RawMessage) (interface{}, *rpcError) {
	var params readResourceParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	text, err := s.handleReadResource(ctx, params.URI)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}

	return readResourceResult{
		Contents: []resourceContent{{URI: params.URI, MimeType: "text/plain", Text: text}},
	}, nil
}
