package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// maxBody caps how much of a response is kept.
const maxBody = 8 << 20

const httpTabID = "http-1"

// HTTP is a tab backed by plain HTTP requests. It has no script engine, so
// the selection is whatever was last passed to SetSelection.
type HTTP struct {
	opts   Options
	client *http.Client

	mu        sync.Mutex
	tab       Tab
	html      string
	loaded    bool
	selection string
}

// NewHTTP returns an HTTP tab with nothing loaded.
func NewHTTP(opts Options) *HTTP {
	opts = opts.withDefaults()
	return &HTTP{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout()},
	}
}

// ActiveTab returns the loaded page.
func (h *HTTP) ActiveTab(ctx context.Context) (Tab, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded {
		return Tab{}, ErrNoActiveTab
	}
	return h.tab, nil
}

// Navigate fetches targetURL and makes it the loaded page. The previous
// page stays loaded when the fetch fails.
func (h *HTTP) Navigate(ctx context.Context, targetURL string) (Tab, error) {
	body, finalURL, err := h.get(ctx, OptimizeGoogleURL(targetURL))
	if err != nil {
		return Tab{}, err
	}
	if blocked, reason := IsBlockedResponse(body); blocked {
		return Tab{}, fmt.Errorf("%s: %w (%s)", targetURL, ErrBlocked, reason)
	}

	title := ""
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.tab = Tab{ID: httpTabID, URL: finalURL, Title: title}
	h.html = body
	h.loaded = true
	h.selection = ""
	return h.tab, nil
}

func (h *HTTP) get(ctx context.Context, targetURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w: %w", ErrNavigation, err)
	}
	req.Header.Set("User-Agent", h.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w: %w", targetURL, ErrNavigation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("fetching %s: %w: status %d", targetURL, ErrNavigation, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w: %w", ErrNavigation, err)
	}

	// Capture final URL after redirects
	return string(body), resp.Request.URL.String(), nil
}

// EnsureExtractor reports whether tab is the loaded page. Plain HTTP pages
// need nothing injected.
func (h *HTTP) EnsureExtractor(ctx context.Context, tab Tab) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded || tab.ID != h.tab.ID {
		return false, ErrNoActiveTab
	}
	return true, nil
}

// Content returns the loaded document.
func (h *HTTP) Content(ctx context.Context, tab Tab) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded || tab.ID != h.tab.ID {
		return "", ErrNoActiveTab
	}
	return h.html, nil
}

// SelectedText returns the text set by SetSelection.
func (h *HTTP) SelectedText(ctx context.Context, tab Tab) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded || tab.ID != h.tab.ID {
		return "", ErrNoActiveTab
	}
	return h.selection, nil
}

// SetSelection records text as the user's selection on the loaded page.
func (h *HTTP) SetSelection(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = text
}

// Close is a no-op; it exists so both drivers share a shape.
func (h *HTTP) Close() error {
	return nil
}
