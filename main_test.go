package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/omnibox"
	"pagechat/settings"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in        string
		name, arg string
		ok        bool
	}{
		{"/summarize", "summarize", "", true},
		{"  /Open  example.com ", "open", "example.com", true},
		{"/settings theme=dark autoSearch=false", "settings", "theme=dark autoSearch=false", true},
		{"what is this page about?", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		name, arg, ok := parseCommand(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.arg, arg, tt.in)
	}
}

func TestWriteResolution(t *testing.T) {
	var buf bytes.Buffer
	r := omnibox.NewResolver("")
	writeResolution(&buf, r, "weather in Mumbai")
	writeResolution(&buf, r, "summarize")
	assert.Equal(t,
		"search\tdomain-noun/weather\thttps://openweathermap.org/find?q=Mumbai,IN\n"+
			"summarize\tsummarize\t-\n",
		buf.String())
}

func TestFormatSettings(t *testing.T) {
	out := formatSettings(settings.Default())
	assert.True(t, strings.HasPrefix(out, "**Settings**\n"))
	assert.Contains(t, out, "• theme: light")
	assert.Contains(t, out, "• autoSearch: true")
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"chat", "ask", "resolve", "analyze", "settings", "init-config"}, names)
}

func TestSettingsCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := "[store]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "s.db")) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"pagechat", "--quiet", "--config", cfgPath, "settings", "set", "theme=dark", "autoSearch=false"}))
	assert.Contains(t, out.String(), "theme: dark")

	out.Reset()
	require.NoError(t, app.Run([]string{"pagechat", "--quiet", "--config", cfgPath, "settings", "show"}))
	assert.Contains(t, out.String(), "theme: dark")
	assert.Contains(t, out.String(), "autoSearch: false")
	assert.Contains(t, out.String(), "fontSize: medium")
}

func TestInitConfig(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"pagechat", "init-config"}))
	assert.Contains(t, out.String(), "[navigation]")
}
