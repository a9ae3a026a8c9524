// Package output renders griffe-quarto command results for people and for
// tools.
//
// Every command writes through a Printer. With --json the printer emits one
// JSON document per result and errors become {"error": "...", "code": N};
// otherwise it prints styled text, with lipgloss styles cleared when the
// writer is not a terminal or --color never is given:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, isTTY)
//	printer.KeyValue("Config", cfgPath)
//	printer.Table([]string{"NAME", "SOURCE"}, rows)
//
// Errors carry a process exit code. Use NewUserError for problems the user
// can fix (unknown template, malformed data file) and NewSystemError for
// I/O or rendering failures; GetExitCode maps any error to a code.
package output
