package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/griffe-quarto/internal/loader"
	"github.com/gorewood/griffe-quarto/internal/output"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	var showFlag string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Long: `List every template visible from the current directory.

Each template is shown with the source that supplies it. When a higher
precedence source overrides a template, the overridden sources are listed
under SHADOWS.

Examples:
  griffe-quarto templates
  griffe-quarto templates --show function.md     # Print the template source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inProjectDir(cmd, func() error { return runTemplates(cmd, showFlag) })
		},
	}

	cmd.Flags().StringVar(&showFlag, "show", "", "Print the source of the named template")

	return cmd
}

func runTemplates(cmd *cobra.Command, showFlag string) error {
	printer := newPrinter(cmd)

	env, err := loader.NewEnvironment(loader.Options{Logger: newLogger(cmd)})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(sysErr)
		return sysErr
	}

	if showFlag != "" {
		return runTemplatesShow(printer, env, showFlag)
	}

	infos, err := env.List()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(fmt.Sprintf("listing templates: %v", err), err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		if infos == nil {
			infos = []loader.TemplateInfo{}
		}
		return printer.WriteJSON(map[string]any{"templates": infos})
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, info.Source, strings.Join(info.Shadows, ", ")})
	}
	printer.Table([]string{"NAME", "SOURCE", "SHADOWS"}, rows)
	return nil
}

// runTemplatesShow prints the raw source of one template.
func runTemplatesShow(printer *output.Printer, env *loader.Environment, name string) error {
	content, source, err := env.Source(name)
	if err != nil {
		return templateLookupError(printer, name, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"name":    name,
			"source":  source,
			"escaped": env.Escapes(name),
			"content": content,
		})
	}
	printer.Print("%s", content)
	return nil
}

// templateLookupError reports a failed template lookup: unknown or invalid
// names are user errors, anything else is a system error.
func templateLookupError(printer *output.Printer, name string, err error) error {
	var exitErr *output.ExitError
	switch {
	case errors.Is(err, loader.ErrTemplateNotFound):
		exitErr = output.NewUserErrorWithCause(
			fmt.Sprintf("template %q not found. Run 'griffe-quarto templates' to see available templates", name), err)
	case errors.Is(err, loader.ErrInvalidName):
		exitErr = output.NewUserErrorWithCause(fmt.Sprintf("invalid template name %q", name), err)
	default:
		exitErr = output.NewSystemErrorWithCause(err.Error(), err)
	}
	printer.Error(exitErr)
	return exitErr
}
