package render

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestChatBreaksLongWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello world", 20, "hello world"},
		{"wraps", "one two three four five six", 10, "one two\nthree four\nfive six"},
		{"keeps blank lines", "first\n\nsecond", 20, "first\n\nsecond"},
		{"breaks url", "see https://example.com/very", 12, "see\nhttps://exam\nple.com/very"},
		{"wide runes", "日本語の文章", 10, "日本語の文\n章"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chat{Width: tt.width}.Assistant(tt.text)
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hi", 2, "hi"},
		{"hello", 3, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Truncate(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q",
					tt.input, tt.width, result, tt.expected)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"hello", 5},
		{"日本", 4},
		{"📄 Page", 7},
		{"e\u0301", 1},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.in); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestStyleApply(t *testing.T) {
	if got := (Style{}).Apply("x"); got != "x" {
		t.Errorf("plain style should not add escapes, got %q", got)
	}
	if got := (Style{Bold: true, FgColor: 36}).Apply("x"); got != "\033[0;1;36mx\033[0m" {
		t.Errorf("got %q", got)
	}
	rgb := Style{UseFgRGB: true, FgRGB: [3]uint8{1, 2, 3}}
	if got := rgb.Sequence(); got != "\033[0;38;2;1;2;3m" {
		t.Errorf("got %q", got)
	}
	if got := StripANSI((Style{Italic: true}).Apply("hi")); got != "hi" {
		t.Errorf("StripANSI left %q", got)
	}
}

func TestParseInline(t *testing.T) {
	spans := parseInline("**Title:** Go *fast* 5 * 3", Style{})
	var plain strings.Builder
	for _, sp := range spans {
		plain.WriteString(sp.text)
	}
	if plain.String() != "Title: Go fast 5 * 3" {
		t.Fatalf("got %q", plain.String())
	}
	if !spans[0].style.Bold || spans[0].text != "Title:" {
		t.Errorf("first span should be bold Title:, got %+v", spans[0])
	}
	if !spans[2].style.Italic || spans[2].text != "fast" {
		t.Errorf("third span should be italic fast, got %+v", spans[2])
	}
}

func TestChatAssistantPlain(t *testing.T) {
	c := Chat{Width: 20}
	got := c.Assistant("📄 **Page Analysis**\n\n• one two three four five six\nend")
	want := "📄 Page Analysis\n\n• one two three four\n  five six\nend"
	if got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestChatUserPrefix(t *testing.T) {
	c := Chat{Width: 12}
	got := c.User("search for cricket scores")
	want := "› search for\n  cricket\n  scores"
	if got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}

func TestChatColor(t *testing.T) {
	c := Chat{Palette: Palette{Accent: Style{FgColor: 33}}, Color: true}
	got := c.Assistant("• **hi**")
	if !strings.Contains(got, "\033[0;33m•\033[0m ") {
		t.Errorf("bullet should use the accent style: %q", got)
	}
	if !strings.Contains(got, "\033[0;1mhi\033[0m") {
		t.Errorf("bold marker should become an escape: %q", got)
	}
	if StripANSI(got) != "• hi" {
		t.Errorf("StripANSI = %q", StripANSI(got))
	}
}

func TestChatTextSize(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 30))
	longest := func(c Chat) int {
		n := 0
		for _, l := range strings.Split(c.Assistant(text), "\n") {
			n = max(n, StringWidth(StripANSI(l)))
		}
		return n
	}

	if got := longest(Chat{Width: 120, Size: SizeSmall}); got <= 100 {
		t.Errorf("small should use the full width, longest line %d", got)
	}
	if got := longest(Chat{Width: 120}); got > 100 {
		t.Errorf("medium should cap lines at 100 cells, longest line %d", got)
	}
	if got := longest(Chat{Width: 120, Size: SizeLarge}); got > 72 {
		t.Errorf("large should cap lines at 72 cells, longest line %d", got)
	}
	if got := longest(Chat{Width: 40, Size: SizeLarge}); got > 40 {
		t.Errorf("a narrow terminal still wins, longest line %d", got)
	}

	c := Chat{Color: true, Size: SizeLarge}
	if got := c.Assistant("hi"); got != "\033[0;1mhi\033[0m" {
		t.Errorf("large reply text should be bold: %q", got)
	}
	if got := c.Notice("hi"); got != "hi" {
		t.Errorf("notices keep their style: %q", got)
	}

	for name, want := range map[string]TextSize{"small": SizeSmall, "medium": SizeMedium, "large": SizeLarge} {
		if got, ok := ParseTextSize(name); !ok || got != want {
			t.Errorf("ParseTextSize(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseTextSize("huge"); ok {
		t.Error("unknown size should not parse")
	}
}

func TestLoader(t *testing.T) {
	var buf strings.Builder
	l := StartLoader(&syncWriter{w: &buf}, "Searching for cricket", 0, SpinnerWave, Style{})
	time.Sleep(200 * time.Millisecond)
	l.Stop()
	l.Stop()

	out := buf.String()
	if !strings.Contains(out, "Searching for cricket") {
		t.Errorf("loader should draw its message: %q", out)
	}
	if !strings.HasSuffix(out, "\r"+ClearLine) {
		t.Errorf("loader should erase its line on stop: %q", out)
	}
}

func TestParseSpinnerStyle(t *testing.T) {
	if st, ok := ParseSpinnerStyle("dots"); !ok || st != SpinnerDots {
		t.Errorf("dots = %v, %v", st, ok)
	}
	if _, ok := ParseSpinnerStyle("bounce"); ok {
		t.Error("unknown style should not parse")
	}
	if got := NewSpinner(SpinnerBraille).Frame(); got != "⠋" {
		t.Errorf("first braille frame = %q", got)
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  *strings.Builder
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func TestNotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if w := TerminalWidth(f); w != DefaultWidth {
		t.Errorf("TerminalWidth = %d, expected %d", w, DefaultWidth)
	}
}
