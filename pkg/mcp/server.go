package mcp

import (
	"github.com/gnana997/appportal/pkg/accesslog"
	"github.com/gnana997/appportal/pkg/catalog"
	"github.com/gnana997/appportal/pkg/portal"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for the portal, exposing catalog query,
// URL helpers and page rendering as tools.
type Server struct {
	mcpServer *server.MCPServer
	source    *catalog.Source
	render    portal.Options
	logger    *accesslog.Logger // may be nil (logging disabled)
}

// NewServer creates a new MCP server backed by the given catalog source.
// If logger is non-nil every tool call is appended to it.
func NewServer(src *catalog.Source, render portal.Options, logger *accesslog.Logger) *Server {
	s := &Server{source: src, render: render, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("appportal", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listAppsTool(), Handler: s.handleListApps},
		server.ServerTool{Tool: getAppTool(), Handler: s.handleGetApp},
		server.ServerTool{Tool: guessAppURLTool(), Handler: s.handleGuessAppURL},
		server.ServerTool{Tool: normalizeURLTool(), Handler: s.handleNormalizeURL},
		server.ServerTool{Tool: renderPageTool(), Handler: s.handleRenderPage},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
