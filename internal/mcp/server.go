// Package mcp provides an MCP (Model Context Protocol) server for cmdf.
// MCP lets agents search the catalogue and build commands through a
// standard JSON-RPC protocol on stdio.
package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ProtocolVersion is the MCP revision the server implements.
const ProtocolVersion = "2024-11-05"

// Server is an MCP server that wraps cmdf CLI commands.
type Server struct {
	in         io.Reader
	out        io.Writer
	executable string   // Path to the cmdf executable
	baseArgs   []string // Global flags forwarded to every tool call
	version    string
	logger     *slog.Logger
}

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      interface{}      `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  *json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ServerInfo contains server capability information.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities defines what the server can do.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability indicates tool support.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema defines the JSON schema for tool input.
type InputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolContent represents content in a tool result.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Config configures a Server.
type Config struct {
	// BaseArgs are global flags such as --config and --catalog that every
	// tool call repeats.
	BaseArgs []string
	Version  string
	Logger   *slog.Logger
}

// NewServer creates a new MCP server reading stdin and writing stdout.
func NewServer(cfg Config) *Server {
	// Tool calls re-run the current binary.
	executable, err := os.Executable()
	if err != nil {
		executable = "cmdf"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Server{
		in:         os.Stdin,
		out:        os.Stdout,
		executable: executable,
		baseArgs:   cfg.BaseArgs,
		version:    version,
		logger:     logger,
	}
}

// Run starts the server's main loop. It returns when stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	// MCP uses line-delimited JSON
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	s.logger.Info("mcp server starting", "executable", s.executable)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("mcp parse error", "error", err)
			s.sendError(nil, -32700, "Parse error", err.Error())
			continue
		}
		s.logger.Debug("mcp request", "method", req.Method, "id", req.ID)

		s.handleRequest(&req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	s.logger.Info("mcp server shutting down")
	return nil
}

func (s *Server) handleRequest(req *Request) {
	// No ID means a notification, which gets no response.
	isNotification := req.ID == nil

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized", "notifications/initialized", "notifications/cancelled":
		return
	case "tools/list":
		s.sendResult(req.ID, map[string]interface{}{"tools": GenerateToolSchemas()})
	case "tools/call":
		s.handleToolsCall(req)
	case "ping":
		s.sendResult(req.ID, map[string]interface{}{})
	default:
		if !isNotification {
			s.sendError(req.ID, -32601, "Method not found", req.Method)
		}
	}
}

func (s *Server) handleInitialize(req *Request) {
	s.sendResult(req.ID, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		"serverInfo": ServerInfo{
			Name:    "cmdforge",
			Version: s.version,
		},
	})
}

func (s *Server) handleToolsCall(req *Request) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			s.sendError(req.ID, -32602, "Invalid params", err.Error())
			return
		}
	}

	result, isError := s.callTool(params.Name, params.Arguments)
	s.sendResult(req.ID, ToolResult{
		Content: []ToolContent{{Type: "text", Text: result}},
		IsError: isError,
	})
}

func (s *Server) callTool(name string, args map[string]interface{}) (string, bool) {
	cliArgs := BuildCLIArgs(name, args)
	if cliArgs == nil {
		return errorEnvelope("UNKNOWN_TOOL", "Unknown tool: "+name), true
	}
	return s.execute(cliArgs)
}

func (s *Server) execute(args []string) (string, bool) {
	args = append(append([]string{}, s.baseArgs...), args...)

	cmd := exec.Command(s.executable, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	s.logger.Debug("mcp tool call", "args", strings.Join(args, " "))
	output, err := cmd.Output()
	if err != nil {
		s.logger.Debug("mcp tool failed", "error", err, "stderr", stderr.String())
		// cmdf prints a JSON envelope for its own failures.
		if json.Valid(bytes.TrimSpace(output)) && len(bytes.TrimSpace(output)) > 0 {
			return string(output), true
		}
		msg := err.Error()
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			msg += ": " + detail
		}
		return errorEnvelope("EXECUTION_ERROR", msg), true
	}
	return string(output), !envelopeOK(output)
}

// envelopeOK reports whether output is a JSON envelope with ok=true. Plain
// text output (for instance from --tokens) counts as success.
func envelopeOK(output []byte) bool {
	var env struct {
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(output), &env); err != nil || env.OK == nil {
		return true
	}
	return *env.OK
}

func errorEnvelope(code, message string) string {
	data, _ := json.Marshal(map[string]interface{}{
		"ok": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
	return string(data)
}

func (s *Server) sendResult(id interface{}, result interface{}) {
	s.send(Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (s *Server) sendError(id interface{}, code int, message, data string) {
	s.send(Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

func (s *Server) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode mcp response", "error", err)
		return
	}
	fmt.Fprintln(s.out, string(data))
}
