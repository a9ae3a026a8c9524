package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/griffe-quarto/internal/loader"
)

// SourceInfo describes one entry of the template chain.
type SourceInfo struct {
	Name string `json:"name"           jsonschema:"source label: project, global or built-in"`
	Dir  string `json:"dir,omitempty" jsonschema:"directory the source reads from (empty for built-in)"`
}

// --- Locate tool ---

// LocateInput is the input for the locate tool.
type LocateInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory to search upward from (default: server working directory)"`
}

// LocateOutput is the output for the locate tool.
type LocateOutput struct {
	Found            bool         `json:"found"                       jsonschema:"whether a Quarto config file was found"`
	Config           string       `json:"config,omitempty"            jsonschema:"path of the nearest _quarto.yml or _quarto.yaml"`
	ProjectTemplates string       `json:"project_templates,omitempty" jsonschema:"project template directory (may not exist)"`
	Sources          []SourceInfo `json:"sources"                     jsonschema:"template sources in precedence order"`
}

func handleLocate(cfg Config) mcp.ToolHandlerFor[LocateInput, LocateOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LocateInput) (*mcp.CallToolResult, LocateOutput, error) {
		cfgPath, found, err := findConfig(input.Dir)
		if err != nil {
			return nil, LocateOutput{}, err
		}
		env, err := newEnvironment(cfg, input.Dir)
		if err != nil {
			return nil, LocateOutput{}, err
		}

		return nil, LocateOutput{
			Found:            found,
			Config:           cfgPath,
			ProjectTemplates: env.ProjectDir(),
			Sources:          describeSources(env),
		}, nil
	}
}

// --- List templates tool ---

// ListTemplatesInput is the input for the list_templates tool.
type ListTemplatesInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory to search upward from (default: server working directory)"`
}

// ListTemplatesOutput is the output for the list_templates tool.
type ListTemplatesOutput struct {
	Templates []loader.TemplateInfo `json:"templates" jsonschema:"templates sorted by name"`
}

func handleListTemplates(cfg Config) mcp.ToolHandlerFor[ListTemplatesInput, ListTemplatesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListTemplatesInput) (*mcp.CallToolResult, ListTemplatesOutput, error) {
		env, err := newEnvironment(cfg, input.Dir)
		if err != nil {
			return nil, ListTemplatesOutput{}, err
		}
		infos, err := env.List()
		if err != nil {
			return nil, ListTemplatesOutput{}, fmt.Errorf("listing templates: %w", err)
		}
		if infos == nil {
			infos = []loader.TemplateInfo{}
		}
		return nil, ListTemplatesOutput{Templates: infos}, nil
	}
}

// --- Render template tool ---

// RenderTemplateInput is the input for the render_template tool.
type RenderTemplateInput struct {
	Name string         `json:"name"           jsonschema:"template name including extension, e.g. module.md"`
	Data map[string]any `json:"data,omitempty" jsonschema:"data the template is rendered with"`
	Dir  string         `json:"dir,omitempty"  jsonschema:"directory to search upward from (default: server working directory)"`
}

// RenderTemplateOutput is the output for the render_template tool.
type RenderTemplateOutput struct {
	Template string `json:"template" jsonschema:"template name"`
	Source   string `json:"source"   jsonschema:"source the template came from"`
	Escaped  bool   `json:"escaped"  jsonschema:"whether HTML escaping was applied"`
	Content  string `json:"content"  jsonschema:"rendered output"`
}

func handleRenderTemplate(cfg Config) mcp.ToolHandlerFor[RenderTemplateInput, RenderTemplateOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RenderTemplateInput) (*mcp.CallToolResult, RenderTemplateOutput, error) {
		if input.Name == "" {
			return nil, RenderTemplateOutput{}, errors.New("name is required")
		}
		env, err := newEnvironment(cfg, input.Dir)
		if err != nil {
			return nil, RenderTemplateOutput{}, err
		}

		tmpl, err := env.Get(input.Name)
		if err != nil {
			return nil, RenderTemplateOutput{}, err
		}
		data := input.Data
		if data == nil {
			data = map[string]any{}
		}
		content, err := tmpl.Render(data)
		if err != nil {
			return nil, RenderTemplateOutput{}, fmt.Errorf("rendering %s: %w", input.Name, err)
		}

		return nil, RenderTemplateOutput{
			Template: input.Name,
			Source:   tmpl.Source,
			Escaped:  tmpl.Escaped,
			Content:  content,
		}, nil
	}
}
