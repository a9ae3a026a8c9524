// Package main provides the entry point for the griffe-quarto CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gorewood/griffe-quarto/internal/output"
	"github.com/gorewood/griffe-quarto/internal/project"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the griffe-quarto CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "griffe-quarto",
		Short: "Render API documentation templates for Quarto sites",
		Long: `griffe-quarto renders API reference pages for Quarto documentation sites.

The project is found by walking up from the working directory to the nearest
_quarto.yml (or _quarto.yaml). Templates are then resolved in order:
  1. <project>/_quartodoc_templates/   (project-local overrides)
  2. ~/.quartodoc/templates/           (user global overrides)
  3. Built-in templates

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := newPrinter(cmd)
				err := output.NewUserError("no command specified. Run 'griffe-quarto --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log discovery details to stderr")
	cmd.PersistentFlags().StringP("chdir", "C", "", "Run as if started in this directory")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newLocateCmd())
	cmd.AddCommand(newTemplatesCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// lookupFlag finds a flag on cmd or among the root's persistent flags.
func lookupFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// isJSONMode reads the --json persistent flag.
func isJSONMode(cmd *cobra.Command) bool {
	return lookupFlag(cmd, "json") == "true"
}

// newPrinter builds a printer honoring --json and --color, with human
// errors on stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	out := cmd.OutOrStdout()
	isTTY := output.ResolveColorMode(lookupFlag(cmd, "color"), output.IsTTY(out))
	return output.NewPrinter(out, isJSONMode(cmd), isTTY).WithStderr(cmd.ErrOrStderr())
}

// newLogger returns a stderr logger at debug level with --verbose and warn
// level otherwise.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.WarnLevel
	if lookupFlag(cmd, "verbose") == "true" {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "griffe-quarto",
		Level:  level,
	})
}

// inProjectDir runs fn inside the --chdir directory when one was given.
// Errors fn has already printed are passed through; a failure to enter or
// leave the directory is printed here.
func inProjectDir(cmd *cobra.Command, fn func() error) error {
	dir := lookupFlag(cmd, "chdir")
	if dir == "" {
		return fn()
	}

	var fnErr error
	err := project.WithDir(dir, func() error {
		fnErr = fn()
		return fnErr
	})
	if err == nil {
		return nil
	}

	var exitErr *output.ExitError
	printed := errors.As(fnErr, &exitErr)
	if printed && err == fnErr {
		return fnErr
	}

	failure := err
	if printed {
		failure = joinedExcept(err, fnErr)
	}
	sysErr := output.NewSystemErrorWithCause(failure.Error(), err)
	newPrinter(cmd).Error(sysErr)
	return sysErr
}

// joinedExcept returns the errors joined into err other than skip.
func joinedExcept(err, skip error) error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	var rest []error
	for _, e := range joined.Unwrap() {
		if e != skip {
			rest = append(rest, e)
		}
	}
	return errors.Join(rest...)
}
