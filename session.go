package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pagechat/assistant"
	"pagechat/config"
	"pagechat/fetcher"
	"pagechat/omnibox"
	"pagechat/page"
	"pagechat/settings"
	"pagechat/speech"
)

// driver is a tab the assistant can read, navigate and inject into. Both
// fetcher.Chrome and fetcher.HTTP satisfy it.
type driver interface {
	assistant.Tabs
	assistant.Injector
	assistant.Selection
	page.Source
	Close() error
}

// session owns everything one command run needs.
type session struct {
	cfg       *config.Config
	log       *slog.Logger
	driver    driver
	store     settings.Store
	assistant *assistant.Assistant

	closers []func() error
}

// openSession connects a driver, opens the settings store and builds the
// assistant. progress may be nil.
func openSession(ctx context.Context, cfg *config.Config, log *slog.Logger, progress func(string)) (*session, error) {
	s := &session{cfg: cfg, log: log}

	opts := cfg.FetcherOptions()
	if cfg.Fetcher.UseBrowser {
		chrome, err := fetcher.NewChrome(ctx, opts, log)
		if err != nil {
			return nil, fmt.Errorf("starting Chrome: %w", err)
		}
		s.driver = chrome
	} else {
		s.driver = fetcher.NewHTTP(opts)
	}
	s.closers = append(s.closers, s.driver.Close)

	s.store = openStore(cfg, log)
	if c, ok := s.store.(interface{ Close() error }); ok {
		s.closers = append(s.closers, c.Close)
	}

	var speaker speech.Speaker = speech.Nop{}
	if cmd, err := speech.NewCommand(cfg.SpeechOptions()); err == nil {
		speaker = cmd
		s.closers = append(s.closers, cmd.Stop)
	} else {
		log.Debug("speech output disabled", "error", err)
	}

	s.assistant = assistant.New(assistant.Deps{
		Tabs:      s.driver,
		Injector:  s.driver,
		Extractor: page.NewExtractor(s.driver, page.DefaultOptions()),
		Selection: s.driver,
		Settings:  s.store,
		Speaker:   speaker,
		Listener:  speech.NewCommandListener(cfg.Speech.ListenCommand),
		Resolver:  omnibox.NewResolver(cfg.Search.FallbackURL),
		Logger:    log,
	}, assistant.Options{Progress: progress})
	return s, nil
}

// openStore opens the SQLite settings store, falling back to memory so a
// read-only home directory does not stop the chat.
func openStore(cfg *config.Config, log *slog.Logger) settings.Store {
	path, err := cfg.StorePath()
	if err == nil {
		var db *settings.SQLite
		if db, err = settings.OpenSQLite(path); err == nil {
			return db
		}
	}
	log.Warn("settings will not persist", "error", err)
	return settings.NewMemory(settings.Default())
}

// open resolves target like the address bar would and loads it in the tab.
func (s *session) open(ctx context.Context, target string) (fetcher.Tab, error) {
	res := omnibox.NewResolver(s.cfg.Search.FallbackURL).Resolve(target)
	s.log.Debug("opening", "url", res.URL, "rule", res.Rule)
	return s.assistant.Open(ctx, res.URL)
}

// selectText sets the selection of an HTTP tab. Chrome tabs report the real
// selection and cannot be set this way.
func (s *session) selectText(text string) error {
	h, ok := s.driver.(*fetcher.HTTP)
	if !ok {
		return errors.New("select text in the browser window instead")
	}
	h.SetSelection(text)
	return nil
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}
