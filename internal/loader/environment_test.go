package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/griffe-quarto/internal/project"
)

// newProject creates <root>/site/_quarto.yml and returns the site directory.
func newProject(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	site := filepath.Join(root, "site")
	writeTemplate(t, site, "_quarto.yml", "project:\n  type: website\n")
	return site
}

func sourceNames(env *Environment) []string {
	var names []string
	for _, src := range env.Sources() {
		names = append(names, src.Name())
	}
	return names
}

func TestNewEnvironment_WithProject(t *testing.T) {
	site := newProject(t)
	start := filepath.Join(site, "reference", "api")
	if err := os.MkdirAll(start, 0o755); err != nil {
		t.Fatal(err)
	}

	env, err := NewEnvironment(Options{StartDir: start, UserDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}

	got := sourceNames(env)
	want := []string{SourceProject, SourceGlobal, SourceBuiltin}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sources = %v, want %v", got, want)
	}
	if wantDir := filepath.Join(site, project.TemplatesDirName); env.ProjectDir() != wantDir {
		t.Errorf("ProjectDir() = %q, want %q", env.ProjectDir(), wantDir)
	}
	projectSrc, ok := env.Sources()[0].(*DirSource)
	if !ok {
		t.Fatalf("first source is %T, want *DirSource", env.Sources()[0])
	}
	if projectSrc.Root() != env.ProjectDir() {
		t.Errorf("project source root = %q, want %q", projectSrc.Root(), env.ProjectDir())
	}
}

func TestNewEnvironment_WithoutProject(t *testing.T) {
	start, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg, ok, _ := project.FindConfigFrom(start); ok {
		t.Skipf("ancestor config %s present on this machine", cfg)
	}
	userDir := t.TempDir()

	env, err := NewEnvironment(Options{StartDir: start, UserDir: userDir})
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}

	got := sourceNames(env)
	if len(got) != 2 || got[0] != SourceGlobal || got[1] != SourceBuiltin {
		t.Errorf("sources = %v, want [global built-in]", got)
	}
	if env.ProjectDir() != "" {
		t.Errorf("ProjectDir() = %q, want empty", env.ProjectDir())
	}
	if root := env.Sources()[0].(*DirSource).Root(); root != userDir {
		t.Errorf("global source root = %q, want %q", root, userDir)
	}
}

func TestNewEnvironment_DefaultUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	env, err := NewEnvironment(Options{StartDir: newProject(t)})
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	global := env.Sources()[1].(*DirSource)
	if want := filepath.Join(home, ".quartodoc", "templates"); global.Root() != want {
		t.Errorf("global root = %q, want %q", global.Root(), want)
	}
}

func TestNewEnvironment_FreshInstances(t *testing.T) {
	opts := Options{StartDir: newProject(t), UserDir: t.TempDir()}
	first, err := NewEnvironment(opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewEnvironment(opts)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("NewEnvironment() returned the same instance twice")
	}
}

func TestEnvironment_ProjectOverridesBuiltin(t *testing.T) {
	site := newProject(t)
	writeTemplate(t, filepath.Join(site, project.TemplatesDirName), "function.md", "custom {{.name}}")

	env, err := NewEnvironment(Options{StartDir: site, UserDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	tmpl, err := env.Get("function.md")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if tmpl.Source != SourceProject {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceProject)
	}
	out, err := tmpl.Render(map[string]any{"name": "f"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "custom f" {
		t.Errorf("Render() = %q, want %q", out, "custom f")
	}
}

func TestEnvironment_GlobalOverridesBuiltin(t *testing.T) {
	userDir := t.TempDir()
	writeTemplate(t, userDir, "class.md", "global class")

	env, err := NewEnvironment(Options{StartDir: newProject(t), UserDir: userDir})
	if err != nil {
		t.Fatal(err)
	}
	out, err := env.Render("class.md", nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "global class" {
		t.Errorf("Render() = %q, want %q", out, "global class")
	}
}

func TestEnvironment_TemplatesDirIsFile(t *testing.T) {
	site := newProject(t)
	writeTemplate(t, site, project.TemplatesDirName, "stray file")

	env, err := NewEnvironment(Options{StartDir: site, UserDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	tmpl, err := env.Get("module.md")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if tmpl.Source != SourceBuiltin {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceBuiltin)
	}
	infos, err := env.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, info := range infos {
		if info.Source != SourceBuiltin {
			t.Errorf("%s listed from %s, want %s", info.Name, info.Source, SourceBuiltin)
		}
	}
}

func TestEnvironment_WhitespaceControl(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "list.md", "Items:\n{{range .}}\n  - {{.}}\n{{end}}\nDone.\n")
	writeTemplate(t, dir, "nested.md", "<ul>\n    {{range .}}\n    <li>{{.}}</li>\n    {{end}}\n</ul>\n")
	env := NewWithChain(Chain{NewDirSource("test", dir)}, nil)

	out, err := env.Render("list.md", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Render(list.md) error = %v", err)
	}
	if want := "Items:\n  - a\n  - b\nDone.\n"; out != want {
		t.Errorf("Render(list.md) = %q, want %q", out, want)
	}

	out, err = env.Render("nested.md", []string{"x"})
	if err != nil {
		t.Fatalf("Render(nested.md) error = %v", err)
	}
	if want := "<ul>\n    <li>x</li>\n</ul>\n"; out != want {
		t.Errorf("Render(nested.md) = %q, want %q", out, want)
	}
}

func TestEnvironment_AutoescapeByExtension(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.html", "<p>{{.}}</p>")
	writeTemplate(t, dir, "page.md", "<p>{{.}}</p>")
	writeTemplate(t, dir, "page.XML", "<p>{{.}}</p>")
	env := NewWithChain(Chain{NewDirSource("test", dir)}, nil)

	tests := []struct {
		name string
		want string
	}{
		{name: "page.html", want: "<p>&lt;b&gt;hi&lt;/b&gt;</p>"},
		{name: "page.XML", want: "<p>&lt;b&gt;hi&lt;/b&gt;</p>"},
		{name: "page.md", want: "<p><b>hi</b></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.Render(tt.name, "<b>hi</b>")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if out != tt.want {
				t.Errorf("Render() = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEnvironment_IncludesResolveThroughChain(t *testing.T) {
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	writeTemplate(t, projectDir, "outer.md", `{{template "inner.md" .}}!`)
	writeTemplate(t, globalDir, "inner.md", `Hello {{template "partials/name.md" .}}`)
	writeTemplate(t, globalDir, "partials/name.md", `{{.}}`)
	env := NewWithChain(Chain{
		NewDirSource(SourceProject, projectDir),
		NewDirSource(SourceGlobal, globalDir),
	}, nil)

	out, err := env.Render("outer.md", "world")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "Hello world!" {
		t.Errorf("Render() = %q, want %q", out, "Hello world!")
	}
}

func TestEnvironment_InlineDefine(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "main.md", `{{define "part"}}P{{end}}{{template "part"}}`)
	env := NewWithChain(Chain{NewDirSource("test", dir)}, nil)

	out, err := env.Render("main.md", nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "P" {
		t.Errorf("Render() = %q, want %q", out, "P")
	}
}

func TestEnvironment_MissingInclude(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "broken.md", `{{template "nope.md"}}`)
	env := NewWithChain(Chain{NewDirSource("test", dir)}, nil)

	if _, err := env.Get("broken.md"); err != nil {
		t.Fatalf("Get() error = %v, want parse to succeed", err)
	}
	if _, err := env.Render("broken.md", nil); err == nil {
		t.Error("Render() error = nil, want missing template error")
	}
}

func TestEnvironment_NotFound(t *testing.T) {
	env := NewWithChain(Chain{NewDirSource("test", t.TempDir()), Builtin()}, nil)

	_, err := env.Get("missing.md")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Get() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestEnvironment_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bad.md", "{{if .x}}never closed")
	env := NewWithChain(Chain{NewDirSource("test", dir)}, nil)

	_, err := env.Get("bad.md")
	if err == nil {
		t.Fatal("Get() error = nil for unclosed block")
	}
	if errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("parse error should not look like not-found: %v", err)
	}
}

func TestEnvironment_Funcs(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "f.md", `{{upper .a}} {{title .b}} {{join ", " .c}} {{default "none" .d}} {{shout .a}}`)
	env := NewWithChain(Chain{NewDirSource("test", dir)}, map[string]any{
		"shout": func(s string) string { return s + "!" },
	})

	out, err := env.Render("f.md", map[string]any{
		"a": "x",
		"b": "hello world",
		"c": []any{"p", "q"},
		"d": "",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "X Hello World p, q none x!"; out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestEnvironment_Source(t *testing.T) {
	env := NewWithChain(Chain{Builtin()}, nil)

	text, src, err := env.Source("class.md")
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	if src != SourceBuiltin {
		t.Errorf("source = %q, want %q", src, SourceBuiltin)
	}
	if !strings.Contains(text, `{{template "function.md" .}}`) {
		t.Errorf("class.md source should include function.md, got %q", text)
	}
}

func TestEnvironment_BuiltinModule(t *testing.T) {
	env := NewWithChain(Chain{Builtin()}, nil)
	greet := map[string]any{
		"name":      "greet",
		"signature": "greet(who: str) -> str",
		"docstring": "Say hello.",
		"parameters": []any{
			map[string]any{"name": "who", "annotation": "str", "description": "Who to greet."},
		},
		"returns": "The greeting.",
	}
	data := map[string]any{
		"name":      "pkg",
		"docstring": "Package docs.",
		"classes": []any{
			map[string]any{"name": "Greeter", "docstring": "Greets.", "methods": []any{greet}},
		},
		"functions": []any{greet},
	}

	out, err := env.Render("module.md", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		"title: \"pkg\"",
		"Package docs.",
		"## Greeter",
		"### greet",
		"greet(who: str) -> str",
		"| `who` | `str` | Who to greet. |",
		"**Returns:** The greeting.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("module.md output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\n\n\n") {
		t.Errorf("module.md output has stray blank lines:\n%s", out)
	}
}

func TestEnvironment_BuiltinFunctionDefaultSignature(t *testing.T) {
	env := NewWithChain(Chain{Builtin()}, nil)

	out, err := env.Render("function.md", map[string]any{"name": "run"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "```python\nrun()\n```") {
		t.Errorf("function.md output = %q, want default signature", out)
	}
}

func TestEnvironment_BuiltinIndexEscapes(t *testing.T) {
	env := NewWithChain(Chain{Builtin()}, nil)

	out, err := env.Render("index.html", map[string]any{
		"title":   "A & B",
		"modules": []any{map[string]any{"name": "core", "summary": "<script>"}},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "<title>A &amp; B</title>") {
		t.Errorf("title not escaped:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("summary not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<li><a href=\"core.html\">core</a>") {
		t.Errorf("module link missing:\n%s", out)
	}
}
