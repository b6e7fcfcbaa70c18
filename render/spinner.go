package render

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// SpinnerStyle defines different spinner animation styles.
type SpinnerStyle int

const (
	// SpinnerBraille uses smooth braille dot animation
	SpinnerBraille SpinnerStyle = iota
	// SpinnerDots uses growing dots animation
	SpinnerDots
	// SpinnerWave uses a wave animation
	SpinnerWave
)

var spinnerNames = map[string]SpinnerStyle{
	"braille": SpinnerBraille,
	"dots":    SpinnerDots,
	"wave":    SpinnerWave,
}

// ParseSpinnerStyle returns the style called name.
func ParseSpinnerStyle(name string) (SpinnerStyle, bool) {
	st, ok := spinnerNames[name]
	return st, ok
}

// Spinner provides animated loading indicators.
type Spinner struct {
	style    SpinnerStyle
	frame    int
	lastTick time.Time
	interval time.Duration
}

// NewSpinner creates a new spinner with the given style.
func NewSpinner(style SpinnerStyle) *Spinner {
	return &Spinner{
		style:    style,
		lastTick: time.Now(),
		interval: 80 * time.Millisecond,
	}
}

// Tick advances the spinner animation if enough time has passed.
// Returns true if the frame changed.
func (s *Spinner) Tick() bool {
	now := time.Now()
	if now.Sub(s.lastTick) >= s.interval {
		s.frame++
		s.lastTick = now
		return true
	}
	return false
}

// Frame returns the current animation frame string.
func (s *Spinner) Frame() string {
	frames := s.frames()
	return frames[s.frame%len(frames)]
}

func (s *Spinner) frames() []string {
	switch s.style {
	case SpinnerBraille:
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	case SpinnerDots:
		return []string{"   ", ".  ", ".. ", "...", " ..", "  .", "   "}
	case SpinnerWave:
		return []string{
			"▁▂▃▄▅▆▇█",
			"▂▃▄▅▆▇█▇",
			"▃▄▅▆▇█▇▆",
			"▄▅▆▇█▇▆▅",
			"▅▆▇█▇▆▅▄",
			"▆▇█▇▆▅▄▃",
			"▇█▇▆▅▄▃▂",
			"█▇▆▅▄▃▂▁",
		}
	default:
		return []string{"|", "/", "-", "\\"}
	}
}

// Loader draws a spinner and a message on one line of w until stopped. It is
// the chat's loading indicator: input stays visible but the assistant is
// busy.
type Loader struct {
	w       io.Writer
	spinner *Spinner
	style   Style
	message string

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartLoader starts drawing spin on w. The message is clipped to width
// cells when width is positive.
func StartLoader(w io.Writer, message string, width int, spin SpinnerStyle, style Style) *Loader {
	if width > 0 {
		message = Truncate(message, width-StringWidth(NewSpinner(spin).Frame())-2)
	}
	l := &Loader{
		w:       w,
		spinner: NewSpinner(spin),
		style:   style,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loader) run() {
	defer close(l.done)
	t := time.NewTicker(l.spinner.interval)
	defer t.Stop()
	l.draw()
	for {
		select {
		case <-l.stop:
			fmt.Fprint(l.w, "\r"+ClearLine)
			return
		case <-t.C:
			if l.spinner.Tick() {
				l.draw()
			}
		}
	}
}

func (l *Loader) draw() {
	fmt.Fprint(l.w, "\r"+ClearLine+l.style.Apply(l.spinner.Frame())+" "+l.message)
}

// Stop erases the indicator and waits for the drawing goroutine to exit.
// It is safe to call more than once.
func (l *Loader) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}
