// Package mcpserver exposes orchestration analysis over the Model
// Context Protocol so agents can assess migration scope directly.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all odx analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all odx tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "odx",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_directory",
		Description: "Analyze a directory of orchestration files and report shape " +
			"frequency, unsupported constructs, messaging patterns, and prioritized " +
			"migration recommendations.",
	}, handleAnalyzeDirectory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "inspect_orchestration",
		Description: "Parse a single orchestration file and report its shapes, ports, " +
			"messages, correlation sets, and detected patterns.",
	}, handleInspectOrchestration)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "dump_model",
		Description: "Parse a single orchestration file and return the complete " +
			"orchestration model, including the full shape tree.",
	}, handleDumpModel)
}
