package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/charmbracelet/log"

	"github.com/gorewood/griffe-quarto/internal/config"
	"github.com/gorewood/griffe-quarto/internal/project"
)

// Options configures NewEnvironment.
type Options struct {
	// StartDir is where the upward _quarto.yml search begins. Empty means
	// the current working directory.
	StartDir string
	// UserDir overrides the user-global template directory. Empty means
	// ~/.quartodoc/templates.
	UserDir string
	// Funcs are added to the built-in template functions, replacing any with
	// the same name.
	Funcs map[string]any
	// Logger receives debug output about discovery. Nil discards it.
	Logger *log.Logger
}

// Environment resolves template names through a source chain and renders
// them. It holds no caches; every Get reads from the sources again.
type Environment struct {
	chain        Chain
	projectDir   string
	autoescape   AutoescapeFunc
	trimBlocks   bool
	lstripBlocks bool
	funcs        map[string]any
	logger       *log.Logger
}

// NewEnvironment locates the project from opts.StartDir and builds an
// environment over project, global and built-in sources. Each call returns
// a fresh environment.
func NewEnvironment(opts Options) (*Environment, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	start := opts.StartDir
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		start = cwd
	}

	projectDir, found, err := project.ProjectTemplatesFrom(start)
	if err != nil {
		return nil, fmt.Errorf("locating project templates: %w", err)
	}
	if found {
		logger.Debug("project templates", "dir", projectDir)
	} else {
		logger.Debug("no project config found", "start", start)
	}

	userDir := opts.UserDir
	if userDir == "" {
		userDir = config.TemplatesDir()
	}

	env := NewWithChain(NewChain(projectDir, userDir), opts.Funcs)
	env.projectDir = projectDir
	env.logger = logger
	for i, src := range env.chain {
		logger.Debug("template source", "order", i+1, "name", src.Name())
	}
	return env, nil
}

// NewChain returns the standard chain: the project directory when non-empty,
// then userDir, then the built-in templates.
func NewChain(projectDir, userDir string) Chain {
	chain := Chain{
		NewDirSource(SourceGlobal, userDir),
		Builtin(),
	}
	if projectDir != "" {
		chain = append(Chain{NewDirSource(SourceProject, projectDir)}, chain...)
	}
	return chain
}

// NewWithChain builds an environment over an explicit chain with default
// engine settings: escaping selected by extension, trimmed and
// left-stripped block actions.
func NewWithChain(chain Chain, funcs map[string]any) *Environment {
	all := builtinFuncs()
	maps.Copy(all, funcs)
	return &Environment{
		chain:        chain,
		autoescape:   SelectAutoescape(DefaultAutoescapeExtensions...),
		trimBlocks:   true,
		lstripBlocks: true,
		funcs:        all,
		logger:       log.New(io.Discard),
	}
}

// Sources returns the chain in precedence order.
func (e *Environment) Sources() []Source {
	return append([]Source(nil), e.chain...)
}

// ProjectDir returns the project template directory, or "" when no project
// config was found.
func (e *Environment) ProjectDir() string {
	return e.projectDir
}

// Escapes reports whether the named template is rendered with escaping.
func (e *Environment) Escapes(name string) bool {
	return e.autoescape(name)
}

// Source returns the raw text of a template and the source that supplied it.
func (e *Environment) Source(name string) (string, string, error) {
	data, src, err := e.chain.Lookup(name)
	if err != nil {
		return "", "", err
	}
	return string(data), src.Name(), nil
}

// List returns every template visible through the chain.
func (e *Environment) List() ([]TemplateInfo, error) {
	return e.chain.List()
}

// Get loads and parses a template. Templates it references with
// {{template "name"}} are resolved through the same chain and parsed with the
// same engine. References that no source provides are left for the engine,
// which accepts them when defined inline.
func (e *Environment) Get(name string) (*Template, error) {
	escaped := e.autoescape(name)
	var set engine
	if escaped {
		set = newHTMLEngine(e.funcs)
	} else {
		set = newTextEngine(e.funcs)
	}

	text, src, err := e.load(set, name)
	if err != nil {
		return nil, err
	}

	type pendingTemplate struct{ name, text string }
	queue := []pendingTemplate{{name, text}}
	loaded := map[string]bool{name: true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, ref := range templateRefs(current.text) {
			if loaded[ref] || set.defined(ref) {
				continue
			}
			loaded[ref] = true
			refText, _, err := e.load(set, ref)
			if errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrInvalidName) {
				continue
			}
			if err != nil {
				return nil, err
			}
			e.logger.Debug("included template", "name", ref, "from", current.name)
			queue = append(queue, pendingTemplate{ref, refText})
		}
	}

	return &Template{Name: name, Source: src, Escaped: escaped, set: set}, nil
}

// load reads name through the chain and parses it into set. It returns the
// preprocessed text and the label of the source it came from.
func (e *Environment) load(set engine, name string) (string, string, error) {
	data, src, err := e.chain.Lookup(name)
	if err != nil {
		return "", "", err
	}
	text := stripBlocks(string(data), e.trimBlocks, e.lstripBlocks)
	if err := set.parse(name, text); err != nil {
		return "", "", fmt.Errorf("parsing %s template %s: %w", src.Name(), name, err)
	}
	e.logger.Debug("loaded template", "name", name, "source", src.Name())
	return text, src.Name(), nil
}

// Render loads the named template and renders it with data.
func (e *Environment) Render(name string, data any) (string, error) {
	tmpl, err := e.Get(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Render(data)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return out, nil
}
