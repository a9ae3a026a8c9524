package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	gqmcp "github.com/gorewood/griffe-quarto/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run griffe-quarto as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "griffe-quarto": {
        "command": "griffe-quarto",
        "args": ["serve"]
      }
    }
  }

Available tools: locate, list_templates, render_template`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inProjectDir(cmd, func() error {
				server := gqmcp.NewServer(buildVersion(), gqmcp.Config{Logger: newLogger(cmd)})
				return server.Run(cmd.Context(), &mcp.StdioTransport{})
			})
		},
	}
}
