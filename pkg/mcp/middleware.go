package mcp

import (
	"context"
	"encoding/json"

	"github.com/gnana997/appportal/pkg/accesslog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware returns a ToolHandlerMiddleware that records every tool
// call in the access log. Only installed when a logger is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := accesslog.Now()
			result, err := next(ctx, req)
			s.logger.Record(accesslog.KindTool, req.Params.Name, start, req.GetArguments(), 0, responseBytes(result), err)
			return result, err
		}
	}
}

// responseBytes returns the serialized byte length of a result's content.
// Returns 0 for a nil result or on marshal error.
func responseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}
