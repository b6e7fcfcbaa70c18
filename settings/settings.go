// Package settings holds the user's assistant preferences and the stores that
// persist them.
package settings

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Settings is the flat preference record.
type Settings struct {
	Theme        string `json:"theme" yaml:"theme"`
	FontSize     string `json:"fontSize" yaml:"fontSize"`
	AutoAnalyze  bool   `json:"autoAnalyze" yaml:"autoAnalyze"`
	VoiceEnabled bool   `json:"voiceEnabled" yaml:"voiceEnabled"`
	AutoSearch   bool   `json:"autoSearch" yaml:"autoSearch"`
}

var (
	Themes    = []string{"light", "dark"}
	FontSizes = []string{"small", "medium", "large"}
)

// Default returns the settings used before the user changes anything.
func Default() Settings {
	return Settings{
		Theme:        "light",
		FontSize:     "medium",
		AutoAnalyze:  false,
		VoiceEnabled: true,
		AutoSearch:   true,
	}
}

// Patch is a partial update. Nil fields are left alone.
type Patch struct {
	Theme        *string `json:"theme,omitempty"`
	FontSize     *string `json:"fontSize,omitempty"`
	AutoAnalyze  *bool   `json:"autoAnalyze,omitempty"`
	VoiceEnabled *bool   `json:"voiceEnabled,omitempty"`
	AutoSearch   *bool   `json:"autoSearch,omitempty"`
}

// Merge returns s with every field set in p overwritten.
func (s Settings) Merge(p Patch) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.AutoAnalyze != nil {
		s.AutoAnalyze = *p.AutoAnalyze
	}
	if p.VoiceEnabled != nil {
		s.VoiceEnabled = *p.VoiceEnabled
	}
	if p.AutoSearch != nil {
		s.AutoSearch = *p.AutoSearch
	}
	return s
}

// Store persists one Settings record.
type Store interface {
	Get(ctx context.Context) (Settings, error)
	Merge(ctx context.Context, p Patch) (Settings, error)
}

// ParseAssignments builds a Patch from key=value pairs such as
// "theme=dark" or "autoSearch=false". Keys are case-insensitive.
func ParseAssignments(args []string) (Patch, error) {
	var p Patch
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return Patch{}, fmt.Errorf("invalid setting %q: expected key=value", arg)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "theme":
			if !slices.Contains(Themes, value) {
				return Patch{}, fmt.Errorf("invalid theme %q: one of %s", value, strings.Join(Themes, ", "))
			}
			p.Theme = &value
		case "fontsize":
			if !slices.Contains(FontSizes, value) {
				return Patch{}, fmt.Errorf("invalid fontSize %q: one of %s", value, strings.Join(FontSizes, ", "))
			}
			p.FontSize = &value
		case "autoanalyze", "voiceenabled", "autosearch":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Patch{}, fmt.Errorf("invalid %s %q: expected true or false", key, value)
			}
			switch key {
			case "autoanalyze":
				p.AutoAnalyze = &b
			case "voiceenabled":
				p.VoiceEnabled = &b
			default:
				p.AutoSearch = &b
			}
		default:
			return Patch{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	return p, nil
}
