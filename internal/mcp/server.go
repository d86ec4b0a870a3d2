package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/internal/tools"
)

const protocolVersion = "2024-11-05"

// request is one incoming JSON-RPC message. Params stays raw until the
// method is known.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Server speaks the MCP stdio transport and dispatches tool calls into the
// registry.
type Server struct {
	registry *tools.Registry
	logger   *logrus.Logger
	in       io.Reader
	out      io.Writer
}

// NewServer creates a server reading from stdin and writing to stdout.
func NewServer(registry *tools.Registry, logger *logrus.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Run reads requests until EOF or context cancellation. Decode errors on a
// single message are logged and skipped; the loop only stops when the input
// stream ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server with stdio transport")

	decoder := json.NewDecoder(s.in)
	encoder := json.NewEncoder(s.out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var req request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				s.logger.Info("Input stream closed, shutting down")
				return nil
			}
			s.logger.WithError(err).Error("Failed to decode request")
			continue
		}

		resp := s.handle(&req)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			s.logger.WithError(err).Error("Failed to encode response")
		}
	}
}

func (s *Server) handle(req *request) *response {
	s.logger.WithField("method", req.Method).Debug("Handling request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: map[string]interface{}{
				"tools": s.registry.Definitions(),
			},
		}
	case "tools/call":
		return s.handleCall(req)
	case "notifications/initialized":
		// Notification; no response frame may be emitted.
		return nil
	default:
		return errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *request) *response {
	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "mcp-mailbox",
				"version": "1.0.0",
			},
		},
	}
}

func (s *Server) handleCall(req *request) *response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, fmt.Sprintf("Invalid params: %v", err))
	}

	tool, exists := s.registry.GetTool(params.Name)
	if !exists {
		return errorResponse(req.ID, -32601, fmt.Sprintf("Tool not found: %s", params.Name))
	}

	s.logger.WithField("tool", params.Name).Info("Executing tool")
	result, err := tool.Execute(params.Arguments)
	if err != nil {
		s.logger.WithError(err).WithField("tool", params.Name).Error("Tool execution failed")
		return errorResponse(req.ID, -32603, err.Error())
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf("%v", result))
	}

	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": string(resultJSON)},
			},
		},
	}
}

func errorResponse(id interface{}, code int, message string) *response {
	return &response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	}
}
