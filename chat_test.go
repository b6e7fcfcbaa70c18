package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/assistant"
	"pagechat/config"
	"pagechat/fetcher"
	"pagechat/omnibox"
	"pagechat/page"
	"pagechat/render"
	"pagechat/settings"
	"pagechat/theme"
)

var guidePage = `<html><head><title>Go Guide</title></head><body><article><p>` +
	strings.Repeat("Go makes it simple to build secure, scalable systems. ", 8) +
	`</p></article></body></html>`

// testRepl returns a chat loop over a plain HTTP tab serving guidePage.
func testRepl(t *testing.T) (*repl, *bytes.Buffer, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, guidePage)
	}))
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tab := fetcher.NewHTTP(fetcher.Options{})
	store := settings.NewMemory(settings.Default())
	s := &session{
		cfg:    config.Default(),
		log:    log,
		driver: tab,
		store:  store,
		assistant: assistant.New(assistant.Deps{
			Tabs:      tab,
			Injector:  tab,
			Extractor: page.NewExtractor(tab, page.DefaultOptions()),
			Selection: tab,
			Settings:  store,
			Resolver:  omnibox.NewResolver(""),
			Logger:    log,
		}, assistant.Options{}),
	}

	var out bytes.Buffer
	r := &repl{s: s, out: &out, status: io.Discard, theme: theme.Light}
	return r, &out, srv.URL + "/guide"
}

func TestBeginReadsOpenTab(t *testing.T) {
	ctx := context.Background()
	r, _, url := testRepl(t)
	_, err := r.s.driver.Navigate(ctx, url)
	require.NoError(t, err)

	r.begin(ctx, "")
	assert.Nil(t, r.s.assistant.Current(), "auto-analyze is off by default")

	on := true
	_, err = r.s.store.Merge(ctx, settings.Patch{AutoAnalyze: &on})
	require.NoError(t, err)
	r.begin(ctx, "")
	require.NotNil(t, r.s.assistant.Current())
	assert.Equal(t, "Go Guide", r.s.assistant.Current().Title)
	assert.Empty(t, r.s.assistant.Transcript())
}

func TestBeginOpensTarget(t *testing.T) {
	ctx := context.Background()
	r, out, url := testRepl(t)

	r.begin(ctx, url)
	assert.Contains(t, out.String(), "Opened ")
	tab, err := r.s.driver.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, url, tab.URL)
}

func TestSettingsCommandAppliesFontSize(t *testing.T) {
	ctx := context.Background()
	r, out, _ := testRepl(t)

	r.settings(ctx, "fontSize=large theme=dark")
	assert.Equal(t, render.SizeLarge, r.chat.Size)
	assert.Equal(t, theme.Dark, r.theme)
	assert.Equal(t, theme.Dark.Palette(), r.chat.Palette)
	assert.Contains(t, out.String(), "fontSize: large")

	r.settings(ctx, "fontSize=small")
	assert.Equal(t, render.SizeSmall, r.chat.Size)
}

func TestNewChatUsesSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Width = 120
	st := settings.Default()
	st.FontSize = "large"
	st.Theme = "dark"

	chat := newChat(cfg, os.Stdout, st)
	assert.Equal(t, 120, chat.Width)
	assert.Equal(t, render.SizeLarge, chat.Size)
	assert.Equal(t, theme.Dark.Palette(), chat.Palette)
}
