package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"pagechat/assistant"
	"pagechat/fetcher"
	"pagechat/render"
	"pagechat/settings"
	"pagechat/theme"
)

const chatHelp = `Type a question about the page, or one of:
• /analyze, /summarize, /explain, /selection, /search: quick actions
• /voice: ask by voice
• /open <url>: load another page
• /select <text>: mark text as selected (plain HTTP tabs)
• /settings [key=value...]: show or change preferences
• /theme: switch between light and dark
• /history: show the conversation so far
• /quit: leave`

// repl is the interactive chat loop.
type repl struct {
	s      *session
	out    io.Writer
	status io.Writer // loader line, kept off out so replies can be piped
	spin   render.SpinnerStyle
	chat   render.Chat
	theme  *theme.Theme
	tty    bool
}

func chatAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("usage: pagechat chat [url]", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c)
	ctx := c.Context

	r := &repl{out: c.App.Writer, status: os.Stderr, tty: render.IsTerminal(os.Stdout)}
	s, err := openSession(ctx, cfg, log, r.progress)
	if err != nil {
		return err
	}
	defer s.Close()
	r.s = s
	r.spin = cfg.SpinnerStyle()

	st := s.assistant.Settings(ctx)
	r.chat = newChat(cfg, os.Stdout, st)
	r.theme, _ = theme.Lookup(st.Theme)
	log.Info("chat started", "session", s.assistant.ID(), "theme", st.Theme, "fontSize", st.FontSize)

	r.begin(ctx, c.Args().First())
	r.run(ctx, os.Stdin)
	return nil
}

// begin loads target, or reads the tab that is already open when there is
// none.
func (r *repl) begin(ctx context.Context, target string) {
	if target != "" {
		r.openPage(ctx, target)
		return
	}
	r.busy("Reading page", func() (assistant.Reply, error) {
		r.s.assistant.Start(ctx)
		return assistant.Reply{}, nil
	})
}

// run reads lines from in until EOF, /quit or ctx ends.
func (r *repl) run(ctx context.Context, in io.Reader) {
	r.print(r.chat.Notice("Ask me anything about this page. Type /help for commands."))

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		r.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !r.dispatch(ctx, line) {
				return
			}
		}
	}
}

// dispatch handles one input line. It returns false when the chat should end.
func (r *repl) dispatch(ctx context.Context, line string) bool {
	name, arg, isCommand := parseCommand(line)
	if !isCommand {
		r.send(ctx, strings.TrimSpace(line))
		return true
	}

	switch name {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		r.print(r.chat.Assistant(chatHelp))
	case "voice", "listen":
		r.reply(r.busy("Listening", func() (assistant.Reply, error) {
			return r.s.assistant.Listen(ctx)
		}))
	case "open":
		if arg == "" {
			r.print(r.chat.Error("usage: /open <url>"))
			break
		}
		r.openPage(ctx, arg)
	case "select":
		if err := r.s.selectText(arg); err != nil {
			r.print(r.chat.Error(err.Error()))
			break
		}
		r.print(r.chat.Notice("Selection set."))
	case "settings":
		r.settings(ctx, arg)
	case "theme":
		r.toggleTheme(ctx)
	case "history":
		r.history()
	default:
		act, err := assistant.ParseAction(name)
		if err != nil {
			r.print(r.chat.Error(fmt.Sprintf("Unknown command /%s. Type /help for commands.", name)))
			break
		}
		r.reply(r.busy("Thinking", func() (assistant.Reply, error) {
			return r.s.assistant.QuickAction(ctx, act)
		}))
	}
	return true
}

func (r *repl) send(ctx context.Context, text string) {
	r.reply(r.busy("Thinking", func() (assistant.Reply, error) {
		return r.s.assistant.HandleMessage(ctx, text)
	}))
}

// busy runs fn with the loading indicator showing.
func (r *repl) busy(message string, fn func() (assistant.Reply, error)) (assistant.Reply, error) {
	if !r.tty {
		return fn()
	}
	l := r.loader(message)
	defer l.Stop()
	return fn()
}

func (r *repl) loader(message string) *render.Loader {
	return render.StartLoader(r.status, message+"...", r.chat.Width, r.spin, r.chat.Palette.Accent)
}

func (r *repl) reply(reply assistant.Reply, err error) {
	switch {
	case errors.Is(err, assistant.ErrEmptyInput):
		return
	case errors.Is(err, assistant.ErrBusy):
		r.print(r.chat.Notice("Still working on the last request."))
	case err != nil:
		r.print(r.chat.Error(err.Error()))
	default:
		r.print(r.chat.Assistant(reply.Text))
	}
}

func (r *repl) openPage(ctx context.Context, target string) {
	var tab fetcher.Tab
	_, err := r.busy("Loading", func() (assistant.Reply, error) {
		var err error
		tab, err = r.s.open(ctx, target)
		return assistant.Reply{}, err
	})
	if err != nil {
		r.print(r.chat.Error(fmt.Sprintf("Could not open %s: %v", target, err)))
		return
	}
	title := tab.URL
	if cur := r.s.assistant.Current(); cur != nil {
		title = cur.Title
	}
	r.print(r.chat.Notice("Opened " + title))
}

func (r *repl) settings(ctx context.Context, arg string) {
	if arg != "" {
		patch, err := settings.ParseAssignments(strings.Fields(arg))
		if err != nil {
			r.print(r.chat.Error(err.Error()))
			return
		}
		if _, err := r.s.store.Merge(ctx, patch); err != nil {
			r.print(r.chat.Error(err.Error()))
			return
		}
	}
	cur := r.s.assistant.Settings(ctx)
	r.theme = applySettings(&r.chat, cur)
	r.print(r.chat.Assistant(formatSettings(cur)))
}

func (r *repl) toggleTheme(ctx context.Context) {
	next := theme.Toggle(r.theme).Name
	cur, err := r.s.store.Merge(ctx, settings.Patch{Theme: &next})
	if err != nil {
		r.print(r.chat.Error(err.Error()))
		return
	}
	r.theme = applySettings(&r.chat, cur)
	r.print(r.chat.Notice("Theme: " + next))
}

func (r *repl) history() {
	turns := r.s.assistant.Transcript()
	if len(turns) == 0 {
		r.print(r.chat.Notice("No messages yet."))
		return
	}
	for _, t := range turns {
		if t.Role == assistant.RoleUser {
			r.print(r.chat.User(t.Content))
			continue
		}
		r.print(r.chat.Assistant(t.Content))
	}
}

// progress shows a transient notice while an action runs.
func (r *repl) progress(msg string) {
	if r.tty {
		fmt.Fprint(r.status, "\r"+render.ClearLine)
	}
	r.print(r.chat.Notice(msg))
}

func (r *repl) prompt() {
	if r.tty {
		fmt.Fprint(r.out, r.chat.Palette.User.Apply("› "))
	}
}

func (r *repl) print(s string) {
	fmt.Fprintln(r.out, s)
	if r.tty {
		fmt.Fprintln(r.out)
	}
}

// parseCommand splits "/name arg..." into its parts. Lines not starting with
// a slash are messages.
func parseCommand(line string) (name, arg string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	name, arg, _ = strings.Cut(line[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

func formatSettings(s settings.Settings) string {
	return fmt.Sprintf(`**Settings**
• theme: %s
• fontSize: %s
• autoAnalyze: %t
• voiceEnabled: %t
• autoSearch: %t`, s.Theme, s.FontSize, s.AutoAnalyze, s.VoiceEnabled, s.AutoSearch)
}
