package loader

import (
	htmltemplate "html/template"
	"io"
	"regexp"
	"strings"
	texttemplate "text/template"
)

// Template is a parsed template together with every template it references
// that could be resolved through the chain.
type Template struct {
	// Name is the name the template was requested by.
	Name string
	// Source labels the chain source that supplied it.
	Source string
	// Escaped reports whether html/template escaping applies.
	Escaped bool

	set engine
}

// Execute renders the template to w.
func (t *Template) Execute(w io.Writer, data any) error {
	return t.set.execute(w, t.Name, data)
}

// Render renders the template to a string.
func (t *Template) Render(data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// engine hides the difference between text/template and html/template.
type engine interface {
	parse(name, src string) error
	defined(name string) bool
	execute(w io.Writer, name string, data any) error
}

type textEngine struct {
	set *texttemplate.Template
}

func newTextEngine(funcs map[string]any) *textEngine {
	return &textEngine{set: texttemplate.New("").Funcs(funcs)}
}

func (e *textEngine) parse(name, src string) error {
	_, err := e.set.New(name).Parse(src)
	return err
}

func (e *textEngine) defined(name string) bool {
	return e.set.Lookup(name) != nil
}

func (e *textEngine) execute(w io.Writer, name string, data any) error {
	return e.set.ExecuteTemplate(w, name, data)
}

type htmlEngine struct {
	set *htmltemplate.Template
}

func newHTMLEngine(funcs map[string]any) *htmlEngine {
	return &htmlEngine{set: htmltemplate.New("").Funcs(funcs)}
}

func (e *htmlEngine) parse(name, src string) error {
	_, err := e.set.New(name).Parse(src)
	return err
}

func (e *htmlEngine) defined(name string) bool {
	return e.set.Lookup(name) != nil
}

func (e *htmlEngine) execute(w io.Writer, name string, data any) error {
	return e.set.ExecuteTemplate(w, name, data)
}

var templateRefPattern = regexp.MustCompile("\\{\\{-?\\s*template\\s+(?:\"([^\"]+)\"|`([^`]+)`)")

// templateRefs returns the names passed to {{template}} actions in src.
func templateRefs(src string) []string {
	var refs []string
	for _, match := range templateRefPattern.FindAllStringSubmatch(src, -1) {
		if match[1] != "" {
			refs = append(refs, match[1])
		} else {
			refs = append(refs, match[2])
		}
	}
	return refs
}
