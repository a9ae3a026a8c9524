package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

const (
	ymlSuffix  = ".yml"
	yamlSuffix = ".yaml"
)

// AltPath returns the sibling of path with its YAML suffix swapped.
// A .yml path maps to .yaml; any other suffix (including .yaml and none)
// is replaced with .yml.
func AltPath(path string) string {
	ext := filepath.Ext(path)
	alt := ymlSuffix
	if ext == ymlSuffix {
		alt = yamlSuffix
	}
	return strings.TrimSuffix(path, ext) + alt
}

// Resolve returns path if it exists, else its alternate-suffix sibling if
// that exists. ok is false when neither exists.
func Resolve(path string) (string, bool, error) {
	for _, candidate := range []string{path, AltPath(path)} {
		found, err := exists(candidate)
		if err != nil {
			return "", false, err
		}
		if found {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// exists reports whether path exists. Missing files and non-directory path
// components count as absent; anything else is an error.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}
