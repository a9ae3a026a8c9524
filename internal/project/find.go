package project

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFile is the site configuration file searched for. Its .yaml
	// sibling is accepted too.
	ConfigFile = "_quarto.yml"

	// TemplatesDirName is the project-local template override directory,
	// a sibling of the configuration file.
	TemplatesDirName = "_quartodoc_templates"
)

// FindConfig searches for the configuration file starting at the current
// working directory.
func FindConfig() (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("getting working directory: %w", err)
	}
	return FindConfigFrom(cwd)
}

// FindConfigFrom walks from start toward the filesystem root and returns the
// first configuration file found. At each level _quarto.yml is preferred over
// _quarto.yaml; a nearer directory always beats a farther one.
//
// The search does not depend on the template directory name, so none is
// taken; ProjectTemplatesFrom joins TemplatesDirName onto the directory
// holding the result.
func FindConfigFrom(start string) (string, bool, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		cfg, ok, err := Resolve(filepath.Join(current, ConfigFile))
		if err != nil {
			return "", false, err
		}
		if ok {
			return cfg, true, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false, nil
		}
		current = parent
	}
}

// ProjectTemplates returns the project-local template directory for the
// project enclosing the current working directory.
func ProjectTemplates() (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("getting working directory: %w", err)
	}
	return ProjectTemplatesFrom(cwd)
}

// ProjectTemplatesFrom returns <config dir>/_quartodoc_templates for the
// configuration file found from start. The directory is not required to
// exist.
func ProjectTemplatesFrom(start string) (string, bool, error) {
	cfg, ok, err := FindConfigFrom(start)
	if err != nil || !ok {
		return "", false, err
	}
	return filepath.Join(filepath.Dir(cfg), TemplatesDirName), true, nil
}
