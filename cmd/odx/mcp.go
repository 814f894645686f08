package main

import (
	"github.com/urfave/cli/v2"

	"github.com/atlasbridge/odx/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run as an MCP server over stdio",
		Action: func(c *cli.Context) error {
			return mcpserver.NewServer(version).Run(c.Context)
		},
	}
}
