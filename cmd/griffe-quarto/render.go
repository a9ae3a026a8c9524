package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/griffe-quarto/internal/loader"
	"github.com/gorewood/griffe-quarto/internal/output"
	"github.com/gorewood/griffe-quarto/internal/vars"
)

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	var dataFlags []string
	var setFlags []string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template with data",
		Long: `Render a template through the project, global and built-in sources.

Data comes from YAML, TOML or JSON files (--data, applied in order) and from
key=value pairs (--set, applied last). Dotted keys such as site.title set
nested values. Templates ending in .html, .htm or .xml escape their data.

Examples:
  griffe-quarto render module.md --data api.yml
  griffe-quarto render function.md --set name=greet --set "signature=greet(who)"
  griffe-quarto render index.html --data site.toml -o _site/index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inProjectDir(cmd, func() error {
				return runRender(cmd, args[0], dataFlags, setFlags, outputFlag)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&dataFlags, "data", "d", nil, "Data file (.yml, .yaml, .toml, .json); repeatable")
	cmd.Flags().StringArrayVarP(&setFlags, "set", "s", nil, "Set a value (key=value); repeatable")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, name string, dataFlags, setFlags []string, outputFlag string) error {
	printer := newPrinter(cmd)

	data, err := vars.Load(dataFlags, setFlags)
	if err != nil {
		userErr := output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(userErr)
		return userErr
	}

	env, err := loader.NewEnvironment(loader.Options{Logger: newLogger(cmd)})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(sysErr)
		return sysErr
	}

	tmpl, err := env.Get(name)
	if err != nil {
		return templateLookupError(printer, name, err)
	}

	rendered, err := tmpl.Render(data)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(fmt.Sprintf("failed to render %s: %v", name, err), err)
		printer.Error(sysErr)
		return sysErr
	}

	if outputFlag != "" {
		return writeRendered(printer, tmpl, rendered, outputFlag)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"template": name,
			"source":   tmpl.Source,
			"escaped":  tmpl.Escaped,
			"content":  rendered,
		})
	}
	printer.Print("%s", rendered)
	return nil
}

// writeRendered writes the rendered template to path and reports it.
func writeRendered(printer *output.Printer, tmpl *loader.Template, rendered, path string) error {
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		sysErr := output.NewSystemErrorWithCause(fmt.Sprintf("failed to write %s: %v", path, err), err)
		printer.Error(sysErr)
		return sysErr
	}
	return printer.Success(map[string]any{
		"message":  fmt.Sprintf("Wrote %s (%s from %s)", path, tmpl.Name, tmpl.Source),
		"template": tmpl.Name,
		"source":   tmpl.Source,
		"output":   path,
	})
}
