package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/atlasbridge/odx/internal/registry"
	"github.com/atlasbridge/odx/pkg/analyzer/patterns"
	"github.com/atlasbridge/odx/pkg/parser"
	"github.com/atlasbridge/odx/pkg/scanner"
)

// AnalyzeDirectoryInput is the input for the analyze_directory tool.
type AnalyzeDirectoryInput struct {
	Paths    []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Registry string   `json:"registry,omitempty" jsonschema:"Optional path to a connector registry file (JSON or YAML)."`
	Workers  int      `json:"workers,omitempty" jsonschema:"Number of files analyzed concurrently. Defaults to twice the CPU count."`
}

// InspectInput is the input for single-file tools.
type InspectInput struct {
	Path string `json:"path" jsonschema:"Path to the orchestration file to parse."`
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleAnalyzeDirectory(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeDirectoryInput) (*mcp.CallToolResult, any, error) {
	paths := input.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := scanner.New().Scan(paths...)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no orchestration files found")
	}

	opts := []patterns.Option{patterns.WithWorkers(input.Workers)}
	if input.Registry != "" {
		reg, err := registry.Load(input.Registry)
		if err != nil {
			return toolError(err.Error())
		}
		opts = append(opts, patterns.WithRegistry(reg))
	}

	a := patterns.New(opts...)
	defer a.Close()

	analysis, err := a.Analyze(ctx, files)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(analysis)
}

func handleInspectOrchestration(ctx context.Context, req *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	a := patterns.New()
	defer a.Close()

	result := a.AnalyzeFile(input.Path)
	if !result.Parsed {
		return toolError(result.Error)
	}
	return toolResult(result)
}

func handleDumpModel(ctx context.Context, req *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	model, err := parser.New().ParseFile(input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(model)
}
