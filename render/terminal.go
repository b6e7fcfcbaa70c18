package render

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	ClearLine = "\033[2K"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), ioctlGetTermios)
	return err == nil
}

// TerminalSize returns the dimensions of the terminal attached to f.
func TerminalSize(f *os.File) (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// TerminalWidth returns the column count of f, or DefaultWidth when f is
// not a terminal.
func TerminalWidth(f *os.File) int {
	w, _, err := TerminalSize(f)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
