package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"pagechat/assistant"
	"pagechat/config"
	"pagechat/intent"
	"pagechat/omnibox"
	"pagechat/render"
	"pagechat/settings"
	"pagechat/theme"
)

// newChat returns the renderer for out in the theme and font size of st.
func newChat(cfg *config.Config, out *os.File, st settings.Settings) render.Chat {
	width := cfg.Display.Width
	if width == 0 {
		width = render.TerminalWidth(out)
	}
	chat := render.Chat{Width: width, Color: render.IsTerminal(out)}
	applySettings(&chat, st)
	return chat
}

// applySettings restyles chat for st and returns the theme it used.
func applySettings(chat *render.Chat, st settings.Settings) *theme.Theme {
	th, _ := theme.Lookup(st.Theme)
	chat.Palette = th.Palette()
	chat.Size, _ = render.ParseTextSize(st.FontSize)
	return th
}

func askAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: pagechat ask <url> <message...>", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c)
	ctx := c.Context

	s, err := openSession(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.open(ctx, c.Args().First()); err != nil {
		return err
	}
	reply, err := s.assistant.HandleMessage(ctx, strings.Join(c.Args().Tail(), " "))
	if err != nil {
		return err
	}
	chat := newChat(cfg, os.Stdout, s.assistant.Settings(ctx))
	fmt.Fprintln(c.App.Writer, chat.Assistant(reply.Text))
	return nil
}

func resolveAction(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return cli.Exit("usage: pagechat resolve <message...>", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	writeResolution(c.App.Writer, omnibox.NewResolver(cfg.Search.FallbackURL), text)
	return nil
}

// writeResolution prints the intent, the rule that decided it and, for
// searches, the destination.
func writeResolution(w io.Writer, r *omnibox.Resolver, text string) {
	cat, rule := intent.Trace(text)
	if cat != intent.Search {
		fmt.Fprintf(w, "%s\t%s\t-\n", cat, rule)
		return
	}
	res := r.Resolve(text)
	fmt.Fprintf(w, "%s\t%s/%s\t%s\n", cat, rule, res.Rule, res.URL)
}

func analyzeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: pagechat analyze <url>", 2)
	}
	format := strings.ToLower(c.String("format"))
	switch format {
	case "text", "json", "yaml":
	default:
		return cli.Exit(fmt.Sprintf("unknown format %q: one of text, json, yaml", format), 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c)
	ctx := c.Context

	s, err := openSession(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.open(ctx, c.Args().First()); err != nil {
		return err
	}
	reply, err := s.assistant.QuickAction(ctx, assistant.Analyze)
	if err != nil {
		return err
	}
	rec := s.assistant.Current()
	if rec == nil {
		return errors.New(reply.Text)
	}

	w := c.App.Writer
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rec)
	}
	chat := newChat(cfg, os.Stdout, s.assistant.Settings(ctx))
	fmt.Fprintln(w, chat.Assistant(reply.Text))
	return nil
}

func settingsShowAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store := openStore(cfg, newLogger(c))
	if cl, ok := store.(io.Closer); ok {
		defer cl.Close()
	}
	cur, err := store.Get(c.Context)
	if err != nil {
		return err
	}
	return writeSettings(c.App.Writer, cur)
}

func settingsSetAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: pagechat settings set <key=value...>", 2)
	}
	patch, err := settings.ParseAssignments(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store := openStore(cfg, newLogger(c))
	if cl, ok := store.(io.Closer); ok {
		defer cl.Close()
	}
	next, err := store.Merge(c.Context, patch)
	if err != nil {
		return err
	}
	return writeSettings(c.App.Writer, next)
}

func writeSettings(w io.Writer, s settings.Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
