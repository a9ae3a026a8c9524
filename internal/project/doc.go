// Package project locates a Quarto project from the current directory.
//
// A project is identified by its site configuration file, _quarto.yml
// (or _quarto.yaml), found by walking from a start directory toward the
// filesystem root. The nearest directory wins. The configuration file is
// never parsed here; only its location matters.
//
// Project-local template overrides live in _quartodoc_templates/ beside the
// configuration file:
//
//	site/
//	  _quarto.yml
//	  _quartodoc_templates/
//	    function.md
//
// Lookups report absence with a false ok value, never with an error. Errors
// are reserved for filesystem failures other than "does not exist".
package project
