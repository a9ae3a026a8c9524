package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"syscall"
)

// Source labels used by NewEnvironment.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
	SourceBuiltin = "built-in"
)

var (
	// ErrTemplateNotFound is matched by every NotFoundError.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidName is returned for names that are not clean relative
	// slash-separated paths (see fs.ValidPath).
	ErrInvalidName = errors.New("invalid template name")
)

// Source is one root of the template chain.
type Source interface {
	// Name labels the source in listings and errors.
	Name() string
	// ReadTemplate returns the raw template. A missing template, or an entry
	// that is not a regular file, yields an error matching fs.ErrNotExist.
	ReadTemplate(name string) ([]byte, error)
	// ListTemplates returns the names of all templates in the source,
	// sorted. A source whose root does not exist is empty.
	ListTemplates() ([]string, error)
}

// NotFoundError reports a name missing from every source of a chain.
type NotFoundError struct {
	Name    string
	Sources []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found (searched: %s)", e.Name, strings.Join(e.Sources, ", "))
}

// Is makes errors.Is(err, ErrTemplateNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// FSSource serves templates from an fs.FS.
type FSSource struct {
	label string
	fsys  fs.FS
}

// NewFSSource wraps fsys as a template source.
func NewFSSource(label string, fsys fs.FS) *FSSource {
	return &FSSource{label: label, fsys: fsys}
}

// Name implements Source.
func (s *FSSource) Name() string { return s.label }

// ReadTemplate implements Source.
func (s *FSSource) ReadTemplate(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	info, err := fs.Stat(s.fsys, name)
	if err == nil && !info.Mode().IsRegular() {
		err = &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	var data []byte
	if err == nil {
		data, err = fs.ReadFile(s.fsys, name)
	}
	if err != nil {
		if isNotDir(err) {
			err = fmt.Errorf("%w: %w", fs.ErrNotExist, err)
		}
		return nil, fmt.Errorf("reading %s template %s: %w", s.label, name, err)
	}
	return data, nil
}

// isNotDir reports whether err came from treating a file as a directory,
// as when a source root or an intermediate path element is a regular file.
func isNotDir(err error) bool {
	return errors.Is(err, syscall.ENOTDIR)
}

// ListTemplates implements Source.
func (s *FSSource) ListTemplates() ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == "." && (errors.Is(err, fs.ErrNotExist) || isNotDir(err)) {
				return fs.SkipAll
			}
			return err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		names = append(names, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s templates: %w", s.label, err)
	}
	sort.Strings(names)
	return names, nil
}

// DirSource serves templates from a directory on disk. The directory is
// not required to exist; a missing root, or one that is a regular file,
// behaves as an empty source.
type DirSource struct {
	*FSSource
	root string
}

// NewDirSource creates a source rooted at dir. An empty dir never matches.
func NewDirSource(label, dir string) *DirSource {
	var fsys fs.FS = emptyFS{}
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return &DirSource{FSSource: NewFSSource(label, fsys), root: dir}
}

// Root returns the directory the source reads from.
func (s *DirSource) Root() string { return s.root }

// emptyFS is the filesystem of a directory source without a root.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
