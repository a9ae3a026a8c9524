package loader

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// builtinFuncs are available in every template.
func builtinFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"trim":    strings.TrimSpace,
		"title":   title,
		"join":    join,
		"indent":  indent,
		"default": defaultValue,
	}
}

// title converts s to English title case. A Caser holds state, so each call
// gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// join concatenates the elements of a slice or array with sep.
func join(sep string, items any) (string, error) {
	if items == nil {
		return "", nil
	}
	val := reflect.ValueOf(items)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return "", fmt.Errorf("join: expected a list, got %T", items)
	}
	parts := make([]string, val.Len())
	for i := range val.Len() {
		parts[i] = fmt.Sprint(val.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns fallback when value is nil or an empty string.
func defaultValue(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && s == "" {
		return fallback
	}
	return value
}
