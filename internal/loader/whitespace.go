package loader

import (
	"strings"
)

const (
	leftDelim  = "{{"
	rightDelim = "}}"
)

// blockKeywords are the actions that control flow or structure rather than
// print a value. Only these are subject to block whitespace handling.
var blockKeywords = map[string]bool{
	"if":       true,
	"else":     true,
	"end":      true,
	"range":    true,
	"with":     true,
	"define":   true,
	"block":    true,
	"template": true,
	"break":    true,
	"continue": true,
}

// stripBlocks rewrites template source so block actions do not leak
// whitespace into the output. With lstrip, spaces and tabs between the start
// of a line and a block action are removed. With trim, the first newline
// after a block action is removed. Value actions such as {{.Name}} are left
// untouched.
func stripBlocks(src string, trim, lstrip bool) string {
	if !trim && !lstrip {
		return src
	}

	var out strings.Builder
	out.Grow(len(src))

	pos := 0
	for {
		rel := strings.Index(src[pos:], leftDelim)
		if rel < 0 {
			out.WriteString(src[pos:])
			return out.String()
		}
		start := pos + rel
		end := actionEnd(src, start)
		if end < 0 {
			// Unterminated action; let the parser report it.
			out.WriteString(src[pos:])
			return out.String()
		}

		text := src[pos:start]
		isBlock := isBlockAction(src[start+len(leftDelim) : end-len(rightDelim)])
		if isBlock && lstrip {
			text = trimIndent(src, pos, start)
		}
		out.WriteString(text)
		out.WriteString(src[start:end])

		pos = end
		if isBlock && trim {
			switch {
			case strings.HasPrefix(src[pos:], "\r\n"):
				pos += 2
			case strings.HasPrefix(src[pos:], "\n"):
				pos++
			}
		}
	}
}

// trimIndent returns src[pos:start] without the trailing run of spaces and
// tabs, provided that run begins a line.
func trimIndent(src string, pos, start int) string {
	i := start
	for i > pos && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i == start {
		return src[pos:start]
	}
	if i == 0 || src[i-1] == '\n' {
		return src[pos:i]
	}
	return src[pos:start]
}

// isBlockAction reports whether the inside of an action is a block keyword
// or a comment.
func isBlockAction(inner string) bool {
	inner = strings.TrimPrefix(inner, "-")
	inner = strings.TrimLeft(inner, " \t\r\n")
	if strings.HasPrefix(inner, "/*") {
		return true
	}

	word := inner
	for i, r := range inner {
		if !(r >= 'a' && r <= 'z') {
			word = inner[:i]
			break
		}
	}
	return blockKeywords[word]
}

// actionEnd returns the index just past the "}}" closing the action that
// opens at start, or -1. Quoted strings and comments are skipped so a "}}"
// inside them does not end the action.
func actionEnd(src string, start int) int {
	i := start + len(leftDelim)
	rest := strings.TrimLeft(strings.TrimPrefix(src[i:], "-"), " \t\r\n")
	if strings.HasPrefix(rest, "/*") {
		closeAt := strings.Index(src[i:], "*/")
		if closeAt < 0 {
			return -1
		}
		i += closeAt + len("*/")
		rel := strings.Index(src[i:], rightDelim)
		if rel < 0 {
			return -1
		}
		return i + rel + len(rightDelim)
	}

	for i < len(src) {
		switch c := src[i]; c {
		case '"', '\'':
			i = skipQuoted(src, i, c)
		case '`':
			rel := strings.IndexByte(src[i+1:], '`')
			if rel < 0 {
				return -1
			}
			i += rel + 2
		case '}':
			if strings.HasPrefix(src[i:], rightDelim) {
				return i + len(rightDelim)
			}
			i++
		default:
			i++
		}
	}
	return -1
}

// skipQuoted returns the index after the quoted literal opening at i.
func skipQuoted(src string, i int, quote byte) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}
