package loader

import (
	"path"
	"strings"
)

// DefaultAutoescapeExtensions lists the extensions rendered with
// html/template.
var DefaultAutoescapeExtensions = []string{"html", "htm", "xml"}

// AutoescapeFunc decides from a template name whether output is escaped.
type AutoescapeFunc func(name string) bool

// SelectAutoescape escapes templates whose extension is one of exts
// (case-insensitive, with or without the leading dot). Other templates are
// not escaped.
func SelectAutoescape(exts ...string) AutoescapeFunc {
	enabled := make(map[string]bool, len(exts))
	for _, ext := range exts {
		enabled[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return func(name string) bool {
		ext := strings.TrimPrefix(path.Ext(name), ".")
		return ext != "" && enabled[strings.ToLower(ext)]
	}
}
