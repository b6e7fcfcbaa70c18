// Package theme provides the colour palettes behind the light and dark chat
// themes.
package theme

import "pagechat/render"

// Color represents an RGB color that can render to ANSI.
type Color struct {
	R, G, B uint8
}

// Theme defines the colours of the chat. Message text uses terminal
// attributes (bold/italic) for emphasis; colours mark who is speaking.
type Theme struct {
	Name string
	Dark bool

	Foreground Color // assistant text
	Dim        Color // notices
	User       Color // the user's own messages
	Accent     Color // bullets, loading spinner
	Error      Color
}

// Style creates a render.Style with the given foreground color.
func (c Color) Style() render.Style {
	return render.Style{
		FgRGB:    [3]uint8{c.R, c.G, c.B},
		UseFgRGB: true,
	}
}

// Palette returns the render styles for t.
func (t *Theme) Palette() render.Palette {
	return render.Palette{
		Text:   t.Foreground.Style(),
		User:   t.User.Style(),
		Accent: t.Accent.Style(),
		Dim:    t.Dim.Style(),
		Error:  t.Error.Style(),
	}
}

// Hex creates a Color from a hex string like "#RRGGBB" or "RRGGBB".
func Hex(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}
	}
	return Color{
		R: hexByte(s[0:2]),
		G: hexByte(s[2:4]),
		B: hexByte(s[4:6]),
	}
}

func hexByte(s string) uint8 {
	var v uint8
	for _, c := range s {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v += uint8(c - 'A' + 10)
		}
	}
	return v
}

// Built-in themes, one per settings value.
var (
	Light = &Theme{
		Name:       "light",
		Foreground: Hex("1a1a1a"),
		Dim:        Hex("888888"),
		User:       Hex("1565c0"), // blue
		Accent:     Hex("00838f"), // teal
		Error:      Hex("c62828"),
	}

	Dark = &Theme{
		Name:       "dark",
		Dark:       true,
		Foreground: Hex("e0e0e0"),
		Dim:        Hex("666666"),
		User:       Hex("5fd7d7"), // cyan
		Accent:     Hex("d7d700"), // yellow
		Error:      Hex("d75f5f"),
	}
)

// All contains all built-in themes for iteration.
var All = []*Theme{Light, Dark}

// Lookup returns the theme called name, or Light when there is none.
func Lookup(name string) (*Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Light, false
}

// Toggle returns the theme of the opposite brightness.
func Toggle(t *Theme) *Theme {
	if t.Dark {
		return Light
	}
	return Dark
}
