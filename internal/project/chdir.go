package project

import (
	"errors"
	"fmt"
	"os"
)

// WithDir runs fn with the process working directory set to dir and restores
// the original directory afterwards, including when fn returns an error or
// panics. fn's error is returned as is; a failure to restore is joined to it.
//
// The working directory is process-wide state. WithDir is not safe for
// concurrent use; callers running goroutines must serialize calls. Code that
// can take an explicit start directory (FindConfigFrom, ProjectTemplatesFrom)
// should prefer that.
func WithDir(dir string, fn func() error) (err error) {
	origin, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	defer func() {
		if restoreErr := os.Chdir(origin); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring working directory: %w", restoreErr))
		}
	}()

	if chdirErr := os.Chdir(dir); chdirErr != nil {
		return fmt.Errorf("changing directory to %s: %w", dir, chdirErr)
	}
	return fn()
}
