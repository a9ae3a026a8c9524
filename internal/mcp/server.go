// Package mcp provides a Model Context Protocol server for griffe-quarto.
// It exposes project discovery, template listing and rendering as MCP tools.
//
// Tools never change the process working directory. Each call takes an
// optional start directory and falls back to the server's working directory.
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config holds what every tool call needs to assemble an environment.
type Config struct {
	// UserDir overrides ~/.quartodoc/templates. Empty uses the default.
	UserDir string
	// Logger receives discovery debug output. Nil discards it.
	Logger *log.Logger
}

// NewServer creates an MCP server with all griffe-quarto tools registered.
func NewServer(version string, cfg Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "griffe-quarto",
		Version: version,
	}, nil)
	registerTools(server, cfg)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations marks tools that only read the filesystem.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

func registerTools(server *mcp.Server, cfg Config) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "locate",
		Description: "Find the nearest _quarto.yml (or _quarto.yaml) above a directory and report the template search chain: project _quartodoc_templates/, ~/.quartodoc/templates, built-in.",
		Annotations: readOnlyAnnotations(),
	}, handleLocate(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List every template visible from a directory, with the source that wins and the sources it shadows.",
		Annotations: readOnlyAnnotations(),
	}, handleListTemplates(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_template",
		Description: "Render a named template (e.g. module.md, index.html) with the given data. Templates resolve through the project, global and built-in sources in that order.",
		Annotations: readOnlyAnnotations(),
	}, handleRenderTemplate(cfg))
}
