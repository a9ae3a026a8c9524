// Package config provides the user-global directories for griffe-quarto.
//
// Locations are fixed conventions under the home directory. There are no
// environment overrides: a user who wants different templates puts them in
// the project's _quartodoc_templates/ directory instead.
package config

import (
	"os"
	"path/filepath"
)

const (
	// DirName is the per-user directory under $HOME.
	DirName = ".quartodoc"

	// TemplatesSubdir holds user-global template overrides inside Dir.
	TemplatesSubdir = "templates"
)

// Dir returns ~/.quartodoc, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, DirName)
}

// TemplatesDir returns ~/.quartodoc/templates, or "" when the home
// directory is unknown.
func TemplatesDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, TemplatesSubdir)
}
