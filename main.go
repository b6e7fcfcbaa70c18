package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"pagechat/config"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pagechat",
		Usage:   "chat with the web page open in a tab",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default ~/.config/pagechat/config.toml)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug detail to stderr",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "log errors only",
			},
			&cli.BoolFlag{
				Name:  "browser",
				Usage: "drive a Chrome tab instead of plain HTTP",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "run Chrome without a window",
				Value: true,
			},
		},
		Action: chatAction,
		Commands: []*cli.Command{
			{
				Name:      "chat",
				Usage:     "start an interactive chat, optionally opening url first",
				ArgsUsage: "[url]",
				Action:    chatAction,
			},
			{
				Name:      "ask",
				Usage:     "open url, send one message and print the reply",
				ArgsUsage: "<url> <message...>",
				Action:    askAction,
			},
			{
				Name:      "resolve",
				Usage:     "print the intent and destination a message resolves to",
				ArgsUsage: "<message...>",
				Action:    resolveAction,
			},
			{
				Name:      "analyze",
				Usage:     "extract a page and print its record",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "output format: text, json or yaml",
						Value:   "text",
					},
				},
				Action: analyzeAction,
			},
			{
				Name:  "settings",
				Usage: "show or change the stored preferences",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the current preferences",
						Action: settingsShowAction,
					},
					{
						Name:      "set",
						Usage:     "change preferences, e.g. theme=dark autoSearch=false",
						ArgsUsage: "<key=value...>",
						Action:    settingsSetAction,
					},
				},
				Action: settingsShowAction,
			},
			{
				Name:  "init-config",
				Usage: "print a default config file",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, config.DefaultTOML())
					return nil
				},
			},
		},
	}
}

// newLogger writes JSON records to stderr at the level the flags select.
func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case c.Bool("verbose"):
		level = slog.LevelDebug
	case c.Bool("quiet"):
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config, or the default path when it is unset.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("%s", config.FormatError(err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s", config.FormatError(err))
	}
	if c.IsSet("browser") {
		cfg.Fetcher.UseBrowser = c.Bool("browser")
	}
	if c.IsSet("headless") {
		cfg.Fetcher.Headless = c.Bool("headless")
	}
	return cfg, nil
}
