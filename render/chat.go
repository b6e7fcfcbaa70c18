package render

import (
	"strings"
	"unicode/utf8"
)

// Palette holds the styles a chat is drawn with.
type Palette struct {
	Text   Style
	User   Style
	Accent Style
	Dim    Style
	Error  Style
}

// Chat formats transcript turns for a terminal of a given width.
type Chat struct {
	Width   int // 0 disables wrapping
	Palette Palette
	Color   bool // false drops every escape sequence
	Size    TextSize
}

// TextSize stands in for a font size. A terminal cannot scale glyphs, so a
// larger size shortens the line measure and large also bolds reply text.
type TextSize int

const (
	SizeMedium TextSize = iota
	SizeSmall
	SizeLarge
)

var textSizes = map[string]TextSize{
	"small":  SizeSmall,
	"medium": SizeMedium,
	"large":  SizeLarge,
}

// ParseTextSize returns the size called name.
func ParseTextSize(name string) (TextSize, bool) {
	sz, ok := textSizes[name]
	return sz, ok
}

// measure caps the terminal width for the size. Small uses all of it.
func (c Chat) measure() int {
	limit := 0
	switch c.Size {
	case SizeMedium:
		limit = 100
	case SizeLarge:
		limit = 72
	}
	if limit > 0 && c.Width > limit {
		return limit
	}
	return c.Width
}

const (
	userPrefix = "› "
	bulletMark = "• "
)

// User formats a message typed by the user.
func (c Chat) User(text string) string {
	return c.block(text, c.Palette.User, c.Palette.User.Apply(userPrefix))
}

// Assistant formats a reply, interpreting **bold**, *italic* and "• " bullets.
func (c Chat) Assistant(text string) string {
	base := c.Palette.Text
	if c.Size == SizeLarge {
		base.Bold = true
	}
	return c.block(text, base, "")
}

// Notice formats a transient status line such as a search in progress.
func (c Chat) Notice(text string) string {
	return c.block(text, c.Palette.Dim, "")
}

// Error formats a failure the user should see.
func (c Chat) Error(text string) string {
	return c.block(text, c.Palette.Error, "")
}

func (c Chat) block(text string, base Style, lead string) string {
	if !c.Color {
		base = Style{}
		lead = StripANSI(lead)
	}
	leadWidth := StringWidth(StripANSI(lead))
	hang := strings.Repeat(" ", leadWidth)

	var out []string
	for i, line := range strings.Split(text, "\n") {
		prefix := hang
		if i == 0 {
			prefix = lead
		}
		out = append(out, c.line(line, base, prefix, leadWidth)...)
	}
	return strings.Join(out, "\n")
}

// line formats one source line, wrapping it under prefix.
func (c Chat) line(line string, base Style, prefix string, prefixWidth int) []string {
	if strings.TrimSpace(line) == "" {
		return []string{strings.TrimRight(prefix, " ")}
	}

	first, hang := prefix, strings.Repeat(" ", prefixWidth)
	if rest, ok := strings.CutPrefix(line, bulletMark); ok {
		mark := bulletMark
		if c.Color {
			mark = c.Palette.Accent.Apply(strings.TrimSpace(bulletMark)) + " "
		}
		first += mark
		hang += strings.Repeat(" ", StringWidth(bulletMark))
		prefixWidth += StringWidth(bulletMark)
		line = rest
	}

	measure := c.measure()
	width := measure - prefixWidth
	if measure <= 0 || width < 10 {
		width = 1 << 30
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	var ws []word
	for _, w := range words(parseInline(line, base)) {
		if w.width() > width {
			ws = append(ws, w.split(width)...)
			continue
		}
		ws = append(ws, w)
	}
	for _, w := range ws {
		ww := w.width()
		if curWidth > 0 && curWidth+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(w.render(c.Color))
		curWidth += ww
	}
	if curWidth > 0 {
		lines = append(lines, cur.String())
	}

	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = hang + lines[i]
		}
	}
	return lines
}

type span struct {
	text  string
	style Style
}

// parseInline splits s at emphasis markers. A marker without a closing
// partner on the same line is kept as text.
func parseInline(s string, base Style) []span {
	var spans []span
	var buf strings.Builder
	bold, italic := false, false

	style := func() Style {
		st := base
		st.Bold = st.Bold || bold
		st.Italic = st.Italic || italic
		return st
	}
	flush := func() {
		if buf.Len() > 0 {
			spans = append(spans, span{text: buf.String(), style: style()})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**") && (bold || strings.Contains(s[i+2:], "**")):
			flush()
			bold = !bold
			i += 2
		case s[i] == '*' && !strings.HasPrefix(s[i:], "**") && (italic || strings.Contains(s[i+1:], "*")):
			flush()
			italic = !italic
			i++
		default:
			buf.WriteByte(s[i])
			i++
		}
	}
	flush()
	return spans
}

// word is a run of spans with no space inside.
type word []span

func words(spans []span) []word {
	var out []word
	var cur word
	for _, sp := range spans {
		for i, part := range strings.Split(sp.text, " ") {
			if i > 0 && len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, span{text: part, style: sp.style})
			}
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (w word) width() int {
	n := 0
	for _, sp := range w {
		n += StringWidth(sp.text)
	}
	return n
}

func (w word) render(color bool) string {
	var b strings.Builder
	for _, sp := range w {
		if color {
			b.WriteString(sp.style.Apply(sp.text))
		} else {
			b.WriteString(sp.text)
		}
	}
	return b.String()
}

// split breaks a word wider than n cells into pieces that fit, keeping each
// piece's styling.
func (w word) split(n int) []word {
	var out []word
	var cur word
	used := 0
	for _, sp := range w {
		text := sp.text
		for text != "" {
			head := TruncateToWidth(text, n-used)
			if head == "" {
				if used > 0 {
					out = append(out, cur)
					cur, used = nil, 0
					continue
				}
				_, size := utf8.DecodeRuneInString(text)
				head = text[:size]
			}
			cur = append(cur, span{text: head, style: sp.style})
			used += StringWidth(head)
			text = text[len(head):]
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
