// Package config provides configuration loading for pagechat using TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"pagechat/fetcher"
	"pagechat/render"
	"pagechat/speech"
)

// Tab driver settings
type Fetcher struct {
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	ChromePath     string `toml:"chromePath"`
	Headless       bool   `toml:"headless"`
	UseBrowser     bool   `toml:"useBrowser"` // drive Chrome instead of plain HTTP
}

// Navigation settle settings
type Navigation struct {
	SettleSeconds float64 `toml:"settleSeconds"`
	WaitReady     bool    `toml:"waitReady"`
}

// Search fallback settings
type Search struct {
	FallbackURL string `toml:"fallbackURL"`
}

// Speech settings
type Speech struct {
	Command       string  `toml:"command"`
	Rate          float64 `toml:"rate"`
	ListenCommand string  `toml:"listenCommand"`
}

// Settings store settings
type Store struct {
	Path string `toml:"path"`
}

// Display settings
type Display struct {
	Width   int    `toml:"width"` // 0 = terminal width
	Spinner string `toml:"spinner"`
}

// Config is the main configuration struct
type Config struct {
	Fetcher    Fetcher    `toml:"fetcher"`
	Navigation Navigation `toml:"navigation"`
	Search     Search     `toml:"search"`
	Speech     Speech     `toml:"speech"`
	Store      Store      `toml:"store"`
	Display    Display    `toml:"display"`
}

// Default returns the default configuration.
func Default() *Config {
	f := fetcher.DefaultOptions()
	return &Config{
		Fetcher: Fetcher{
			UserAgent:      f.UserAgent,
			TimeoutSeconds: f.TimeoutSeconds,
			Headless:       f.Headless,
		},
		Navigation: Navigation{
			SettleSeconds: f.Settle.Seconds(),
			WaitReady:     f.WaitReady,
		},
		Search: Search{
			FallbackURL: "https://www.google.com/search?q=%s",
		},
		Speech: Speech{
			Rate: 0.9,
		},
		Display: Display{
			Spinner: "braille",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pagechat"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the user's config file, layered on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(configPath)
}

// LoadFile loads the config at path, layered on top of defaults. A missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	userCfg, md, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return merge(cfg, userCfg, md), nil
}

// loadFromTOML loads a TOML config file and returns the config with the
// metadata recording which keys were present.
func loadFromTOML(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("parsing config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, md, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return &cfg, md, nil
}

// merge layers user config on top of defaults. Strings and numbers override
// when non-zero; booleans override whenever the key is present, so an
// explicit false is kept.
func merge(defaults, user *Config, md toml.MetaData) *Config {
	result := *defaults

	// Fetcher
	if user.Fetcher.UserAgent != "" {
		result.Fetcher.UserAgent = user.Fetcher.UserAgent
	}
	if user.Fetcher.TimeoutSeconds != 0 {
		result.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}
	if user.Fetcher.ChromePath != "" {
		result.Fetcher.ChromePath = user.Fetcher.ChromePath
	}
	mergeBool(md, &result.Fetcher.Headless, user.Fetcher.Headless, "fetcher", "headless")
	mergeBool(md, &result.Fetcher.UseBrowser, user.Fetcher.UseBrowser, "fetcher", "useBrowser")

	// Navigation: a settle of 0 is meaningful, so presence decides
	if md.IsDefined("navigation", "settleSeconds") {
		result.Navigation.SettleSeconds = user.Navigation.SettleSeconds
	}
	mergeBool(md, &result.Navigation.WaitReady, user.Navigation.WaitReady, "navigation", "waitReady")

	// Search
	if user.Search.FallbackURL != "" {
		result.Search.FallbackURL = user.Search.FallbackURL
	}

	// Speech
	if user.Speech.Command != "" {
		result.Speech.Command = user.Speech.Command
	}
	if user.Speech.Rate != 0 {
		result.Speech.Rate = user.Speech.Rate
	}
	if user.Speech.ListenCommand != "" {
		result.Speech.ListenCommand = user.Speech.ListenCommand
	}

	// Store
	if user.Store.Path != "" {
		result.Store.Path = user.Store.Path
	}

	// Display
	if user.Display.Width != 0 {
		result.Display.Width = user.Display.Width
	}
	if user.Display.Spinner != "" {
		result.Display.Spinner = user.Display.Spinner
	}

	return &result
}

func mergeBool(md toml.MetaData, dst *bool, src bool, key ...string) {
	if md.IsDefined(key...) {
		*dst = src
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Navigation.SettleSeconds < 0 {
		return fmt.Errorf("navigation.settleSeconds must not be negative, got %v", c.Navigation.SettleSeconds)
	}
	if c.Fetcher.TimeoutSeconds < 0 {
		return fmt.Errorf("fetcher.timeoutSeconds must not be negative, got %d", c.Fetcher.TimeoutSeconds)
	}
	if _, ok := render.ParseSpinnerStyle(c.Display.Spinner); !ok {
		return fmt.Errorf("display.spinner must be braille, dots or wave, got %q", c.Display.Spinner)
	}
	if c.Speech.Rate < 0 {
		return fmt.Errorf("speech.rate must not be negative, got %v", c.Speech.Rate)
	}
	return nil
}

// FetcherOptions returns the tab driver options.
func (c *Config) FetcherOptions() fetcher.Options {
	return fetcher.Options{
		UserAgent:      c.Fetcher.UserAgent,
		TimeoutSeconds: c.Fetcher.TimeoutSeconds,
		ChromePath:     c.Fetcher.ChromePath,
		Headless:       c.Fetcher.Headless,
		Settle:         time.Duration(c.Navigation.SettleSeconds * float64(time.Second)),
		WaitReady:      c.Navigation.WaitReady,
	}
}

// SpinnerStyle returns the loading indicator style.
func (c *Config) SpinnerStyle() render.SpinnerStyle {
	st, _ := render.ParseSpinnerStyle(c.Display.Spinner)
	return st
}

// SpeechOptions returns the text-to-speech options.
func (c *Config) SpeechOptions() speech.Options {
	return speech.Options{Command: c.Speech.Command, Rate: c.Speech.Rate}
}

// StorePath returns the settings database path.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pagechat.db"), nil
}

// DefaultTOML returns the default configuration as a TOML string.
// Used by init-config to generate a user config file.
func DefaultTOML() string {
	return `# pagechat configuration
# Save to ~/.config/pagechat/config.toml and customize
# Only include settings you want to change from defaults

# Tab driver settings
[fetcher]
userAgent = "` + fetcher.DefaultOptions().UserAgent + `"
timeoutSeconds = 30
chromePath = ""               # Path to Chrome/Chromium (empty = auto-detect)
headless = true
useBrowser = false            # Drive a Chrome tab instead of plain HTTP

# Fixed wait after each navigation before the page is read.
# Larger values tolerate slow networks, smaller values answer sooner;
# 0 relies on the DOM-ready wait alone.
[navigation]
settleSeconds = 3
waitReady = true              # Wait for <body> before settling

# Search settings
[search]
fallbackURL = "https://www.google.com/search?q=%s"   # %s is the search term

# Speech settings
[speech]
command = ""                  # TTS program (empty = say, espeak-ng, espeak or spd-say)
rate = 0.9
listenCommand = ""            # Recognizer printing one transcript (empty = voice input off)

# Settings store
[store]
path = ""                     # SQLite file (empty = ~/.config/pagechat/pagechat.db)

# Display settings
[display]
width = 0                     # Wrap width (0 = terminal width)
spinner = "braille"           # Loading indicator: braille, dots or wave
`
}

// FormatError formats a configuration error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}
