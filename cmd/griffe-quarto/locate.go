package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/griffe-quarto/internal/config"
	"github.com/gorewood/griffe-quarto/internal/loader"
	"github.com/gorewood/griffe-quarto/internal/output"
	"github.com/gorewood/griffe-quarto/internal/project"
)

// sourceJSON is one template source in JSON output.
type sourceJSON struct {
	Name string `json:"name"`
	Dir  string `json:"dir,omitempty"`
}

// locateResult is the JSON shape of the locate command.
type locateResult struct {
	Found            bool         `json:"found"`
	Config           string       `json:"config,omitempty"`
	ProjectTemplates string       `json:"project_templates,omitempty"`
	UserTemplates    string       `json:"user_templates,omitempty"`
	Sources          []sourceJSON `json:"sources"`
}

// newLocateCmd creates the locate command.
func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show the Quarto config and template search chain",
		Long: `Show where griffe-quarto looks for templates from the current directory.

Walks up to the nearest _quarto.yml (or _quarto.yaml) and reports it, the
project template directory beside it, the user template directory, and the
resulting search chain in precedence order. The project template directory
is reported even when it does not exist yet.

Examples:
  griffe-quarto locate
  griffe-quarto locate -C docs/ --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inProjectDir(cmd, func() error { return runLocate(cmd) })
		},
	}
}

func runLocate(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	cfgPath, found, err := project.FindConfig()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(fmt.Sprintf("searching for %s: %v", project.ConfigFile, err), err)
		printer.Error(sysErr)
		return sysErr
	}

	env, err := loader.NewEnvironment(loader.Options{Logger: newLogger(cmd)})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(sysErr)
		return sysErr
	}

	result := locateResult{
		Found:            found,
		Config:           cfgPath,
		ProjectTemplates: env.ProjectDir(),
		UserTemplates:    config.TemplatesDir(),
		Sources:          describeSources(env),
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	if !found {
		printer.Warn("no %s found; using global and built-in templates only", project.ConfigFile)
	}
	printer.KeyValue("Config", result.Config)
	printer.KeyValue("Project templates", result.ProjectTemplates)
	printer.KeyValue("User templates", result.UserTemplates)
	printer.Section("Template chain")
	for i, src := range result.Sources {
		dir := src.Dir
		if dir == "" {
			dir = "(embedded)"
		}
		printer.Print("%d. %-9s %s\n", i+1, src.Name, dir)
	}
	return nil
}

// describeSources converts the environment's chain for display.
func describeSources(env *loader.Environment) []sourceJSON {
	sources := env.Sources()
	result := make([]sourceJSON, 0, len(sources))
	for _, src := range sources {
		entry := sourceJSON{Name: src.Name()}
		if dirSrc, ok := src.(*loader.DirSource); ok {
			entry.Dir = dirSrc.Root()
		}
		result = append(result, entry)
	}
	return result
}
