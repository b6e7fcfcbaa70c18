// Package render formats chat output for the terminal: ANSI styling, display
// widths and word wrapping.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Style is the ANSI styling applied to a run of text.
type Style struct {
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	FgColor   int // ANSI foreground code (0 = default, 32 = green, 33 = yellow, etc.)
	FgRGB     [3]uint8
	UseFgRGB  bool
}

// Reset clears all styling.
const Reset = "\033[0m"

// Sequence returns the escape sequence that switches to s.
func (s Style) Sequence() string {
	codes := []string{"0"}
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Italic {
		codes = append(codes, "3")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	if s.UseFgRGB {
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", s.FgRGB[0], s.FgRGB[1], s.FgRGB[2]))
	} else if s.FgColor > 0 {
		codes = append(codes, fmt.Sprintf("%d", s.FgColor))
	}
	return fmt.Sprintf("\033[%sm", strings.Join(codes, ";"))
}

// Plain reports whether s changes nothing.
func (s Style) Plain() bool {
	return s == Style{}
}

// Apply wraps text in s. A plain style returns text unchanged.
func (s Style) Apply(text string) string {
	if s.Plain() || text == "" {
		return text
	}
	return s.Sequence() + text + Reset
}

// RuneWidth returns the display width of r in terminal cells. Control
// characters, combining marks and format characters take none; East Asian
// wide and fullwidth runes, emoji included, take two.
func RuneWidth(r rune) int {
	switch {
	case r < 0x20 || r == 0x7F:
		return 0
	case r < 0x80:
		return 1
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// TruncateToWidth cuts s to at most limit cells.
func TruncateToWidth(s string, limit int) string {
	used := 0
	for i, r := range s {
		w := RuneWidth(r)
		if used+w > limit {
			return s[:i]
		}
		used += w
	}
	return s
}

// Truncate cuts s to n cells, ending in "..." when anything was removed.
func Truncate(s string, n int) string {
	if StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return TruncateToWidth(s, n)
	}
	return TruncateToWidth(s, n-3) + "..."
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	var sb strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}
