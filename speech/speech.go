// Package speech reads assistant replies aloud through a system text-to-speech
// command and turns voice input into text through a recognizer command.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrUnsupported is returned when no speech recognizer is configured.
	ErrUnsupported = errors.New("speech recognition not supported")
	// ErrNoSpeaker is returned when no text-to-speech command can be found.
	ErrNoSpeaker = errors.New("no text-to-speech command found")
	// ErrNoSpeech is returned when the recognizer heard nothing.
	ErrNoSpeech = errors.New("no speech detected")
)

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop() error
}

// Listener captures one voice utterance and returns its transcript.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// markers are stripped before speaking.
var markers = strings.NewReplacer(
	"**", "", "*", "", "\n", ". ",
	"📄", "", "📝", "", "🎤", "", "💡", "", "🔍", "", "✓", "",
)

// CleanText prepares a chat reply for speech: emphasis markers and emoji go,
// newlines become sentence breaks.
func CleanText(text string) string {
	return markers.Replace(text)
}

// Options configures the Command speaker.
type Options struct {
	Command string  // binary name or path; empty picks the first available
	Rate    float64 // 1.0 is normal speed
}

// candidates are tried in order when Options.Command is empty.
var candidates = []string{"say", "espeak-ng", "espeak", "spd-say"}

// Command speaks through an external TTS program. Starting a new utterance
// stops the one in progress.
type Command struct {
	path string
	rate float64

	mu  sync.Mutex
	cur *exec.Cmd
}

// NewCommand locates the TTS program.
func NewCommand(opts Options) (*Command, error) {
	if opts.Rate <= 0 {
		opts.Rate = 0.9
	}
	names := candidates
	if opts.Command != "" {
		names = []string{opts.Command}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return &Command{path: path, rate: opts.Rate}, nil
		}
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoSpeaker, strings.Join(names, ", "))
}

// args returns the program's rate flag followed by the text.
func (c *Command) args(text string) []string {
	switch filepath.Base(c.path) {
	case "say":
		return []string{"-r", strconv.Itoa(int(c.rate * 200)), text}
	case "espeak", "espeak-ng":
		return []string{"-s", strconv.Itoa(int(c.rate * 175)), text}
	case "spd-say":
		return []string{"-r", strconv.Itoa(int((c.rate - 1) * 100)), text}
	}
	return []string{text}
}

// Speak starts reading text and returns without waiting for it to finish.
func (c *Command) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(CleanText(text))
	if err := c.Stop(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	// The utterance outlives the action that produced it; Stop ends it.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), c.path, c.args(text)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", filepath.Base(c.path), err)
	}

	c.mu.Lock()
	c.cur = cmd
	c.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		c.mu.Lock()
		if c.cur == cmd {
			c.cur = nil
		}
		c.mu.Unlock()
	}()
	return nil
}

// Stop cancels the utterance in progress, if any.
func (c *Command) Stop() error {
	c.mu.Lock()
	cmd := c.cur
	c.cur = nil
	c.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stopping speech: %w", err)
	}
	return nil
}

// Speaking reports whether an utterance is in progress.
func (c *Command) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return nil }
func (Nop) Stop() error                         { return nil }

// CommandListener runs a recognizer program that records one utterance and
// prints its transcript on stdout.
type CommandListener struct {
	argv []string
}

// NewCommandListener returns a Listener for command, a program with optional
// arguments. An empty command yields Unsupported.
func NewCommandListener(command string) Listener {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return Unsupported{}
	}
	return &CommandListener{argv: argv}
}

// Listen runs the recognizer and returns its trimmed output.
func (l *CommandListener) Listen(ctx context.Context) (string, error) {
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.argv[0], l.argv[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s", l.argv[0], msg)
		}
		return "", fmt.Errorf("%s: %w", l.argv[0], err)
	}
	transcript := strings.Join(strings.Fields(out.String()), " ")
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}

// Unsupported is the Listener used when no recognizer is available.
type Unsupported struct{}

func (Unsupported) Listen(context.Context) (string, error) { return "", ErrUnsupported }
