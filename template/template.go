// Package template provides the template engine behind the assistant's
// canned responses. It wraps Go's text/template with rune-safe slicing and
// terminal-friendly formatting functions.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Ellipsis is appended by excerpt when text is cut.
const Ellipsis = "..."

// Engine renders templates with the built-in functions.
type Engine struct {
	funcs template.FuncMap
}

// New creates a new template engine with all built-in functions.
func New() *Engine {
	e := &Engine{}
	e.funcs = template.FuncMap{
		// Slicing, counted in runes
		"excerpt": Excerpt,

		// Lists
		"limit": limit,
		"join":  join,

		// Markers the chat renderer interprets
		"bold":   bold,
		"bullet": bullet,

		// Utilities
		"plural": plural,
		"len":    length,
		"add":    add,
	}
	return e
}

// Parse compiles tmpl with the engine's functions.
func (e *Engine) Parse(name, tmpl string) (*template.Template, error) {
	return template.New(name).Funcs(e.funcs).Parse(tmpl)
}

// Must is Parse that panics on error, for package-level templates.
func (e *Engine) Must(name, tmpl string) *template.Template {
	return template.Must(e.Parse(name, tmpl))
}

// Execute runs a compiled template and returns its output.
func Execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// --- Slicing ---

// Clip returns at most the first n runes of s. Shorter text is returned
// unchanged.
func Clip(n int, s string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Excerpt is Clip followed by an ellipsis, added only when s was cut.
func Excerpt(n int, s string) string {
	c := Clip(n, s)
	if len(c) < len(s) {
		return c + Ellipsis
	}
	return c
}

// Collapse replaces runs of whitespace, newlines included, with one space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// --- Lists ---

// limit returns the first n items of a string slice.
func limit(n int, items []string) []string {
	if n < 0 {
		n = 0
	}
	if n >= len(items) {
		return items
	}
	return items[:n]
}

// join concatenates strings with a separator.
func join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// --- Markers ---

func bold(s string) string {
	return "**" + s + "**"
}

func bullet(s string) string {
	return "• " + s
}

// --- Utilities ---

// plural formats a count with its noun, adding "s" unless n is 1.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// length returns the rune length of a string or the length of a slice.
func length(val any) int {
	switch v := val.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}

func add(a, b int) int {
	return a + b
}
