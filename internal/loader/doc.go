// Package loader assembles the template environment used to render
// documentation pages.
//
// Templates are resolved in order, first match wins:
//  1. <project>/_quartodoc_templates/<name> (project-local, only when a
//     _quarto.yml is found above the start directory)
//  2. ~/.quartodoc/templates/<name> (user global)
//  3. Built-in templates (embedded in binary)
//
// Template names carry their extension. The extension selects the engine:
// html, htm and xml templates are parsed with html/template and escape their
// data; everything else uses text/template. Block actions ({{if}}, {{range}},
// {{end}}, comments and the like) that sit on their own line leave no blank
// line or indentation behind.
package loader
