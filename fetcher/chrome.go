package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript contains JavaScript to mask automation detection.
// Based on puppeteer-extra-plugin-stealth techniques.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined,
});

window.chrome = {
    runtime: {},
    loadTimes: function() {},
    csi: function() {},
    app: {},
};

Object.defineProperty(navigator, 'languages', {
    get: () => ['en-US', 'en'],
});

const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
    parameters.name === 'notifications' ?
        Promise.resolve({ state: Notification.permission }) :
        originalQuery(parameters)
);
`

// extractorScript installs the page-side helpers. Installing twice is
// harmless.
const extractorScript = `
window.__pagechat = window.__pagechat || {
    html: () => document.documentElement.outerHTML,
    selection: () => {
        const s = window.getSelection();
        return s ? s.toString() : '';
    },
};
true
`

// Chrome drives one persistent browser tab. Navigations reuse the tab so
// cookies and history carry over.
type Chrome struct {
	opts   Options
	logger *slog.Logger

	ctx         context.Context // tab context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	mu     sync.Mutex // serialises browser calls
	opened bool       // a page other than about:blank has loaded
}

// NewChrome starts Chrome and opens its tab. The browser lives until Close
// or until ctx is cancelled.
func NewChrome(ctx context.Context, opts Options, logger *slog.Logger) (*Chrome, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1280, 900),
		chromedp.UserDataDir(userDataDir()),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
		}),
	)

	c := &Chrome{
		opts:        opts,
		logger:      logger,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}

	// The first Run launches the browser and binds it to the tab context, so
	// it must not carry a timeout.
	err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		network.SetExtraHTTPHeaders(network.Headers(map[string]any{
			"Accept-Language": "en-US,en;q=0.9",
		})),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	return c, nil
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) tabID() string {
	if cc := chromedp.FromContext(c.ctx); cc != nil && cc.Target != nil {
		return string(cc.Target.TargetID)
	}
	return ""
}

// ActiveTab returns the tab's current page.
func (c *Chrome) ActiveTab(ctx context.Context) (Tab, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(ctx)
}

func (c *Chrome) current(ctx context.Context) (Tab, error) {
	var loc, title string
	if err := c.run(ctx, c.opts.Timeout(), chromedp.Location(&loc), chromedp.Title(&title)); err != nil {
		return Tab{}, fmt.Errorf("%w: %w", ErrNoActiveTab, err)
	}
	if !c.opened || loc == "" || loc == "about:blank" {
		return Tab{}, ErrNoActiveTab
	}
	return Tab{ID: c.tabID(), URL: loc, Title: title}, nil
}

// Navigate loads targetURL in the tab and waits for it to settle: the body
// is awaited when WaitReady is set, then the fixed settle delay elapses.
func (c *Chrome) Navigate(ctx context.Context, targetURL string) (Tab, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	actions := []chromedp.Action{chromedp.Navigate(OptimizeGoogleURL(targetURL))}
	if c.opts.WaitReady {
		actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	}
	if c.opts.Settle > 0 {
		actions = append(actions, chromedp.Sleep(c.opts.Settle))
	}
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		// Cloudflare interstitials clear themselves after a few seconds.
		var title string
		if err := chromedp.Title(&title).Do(ctx); err == nil && title == "Just a moment..." {
			return chromedp.Sleep(5 * time.Second).Do(ctx)
		}
		return nil
	}))

	timeout := c.opts.Timeout() + c.opts.Settle + 5*time.Second
	if err := c.run(ctx, timeout, actions...); err != nil {
		return Tab{}, fmt.Errorf("loading %s: %w: %w", targetURL, ErrNavigation, err)
	}
	c.opened = true

	var body string
	if err := c.run(ctx, c.opts.Timeout(), chromedp.OuterHTML("body", &body, chromedp.ByQuery)); err == nil {
		if blocked, reason := IsBlockedResponse(body); blocked {
			return Tab{}, fmt.Errorf("%s: %w (%s)", targetURL, ErrBlocked, reason)
		}
	}

	tab, err := c.current(ctx)
	if err != nil {
		return Tab{}, err
	}
	c.logger.Debug("navigated", "url", tab.URL, "elapsed", time.Since(start))
	return tab, nil
}

// EnsureExtractor installs the page-side helpers in tab if they are missing.
func (c *Chrome) EnsureExtractor(ctx context.Context, tab Tab) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(tab); err != nil {
		return false, err
	}
	var ok bool
	if err := c.run(ctx, c.opts.Timeout(), chromedp.Evaluate(extractorScript, &ok)); err != nil {
		return false, fmt.Errorf("injecting extractor: %w", err)
	}
	return ok, nil
}

// Content returns the tab's live document.
func (c *Chrome) Content(ctx context.Context, tab Tab) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(tab); err != nil {
		return "", err
	}
	var html string
	if err := c.run(ctx, c.opts.Timeout(), chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return html, nil
}

// SelectedText returns the user's current selection in tab, or "".
func (c *Chrome) SelectedText(ctx context.Context, tab Tab) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(tab); err != nil {
		return "", err
	}
	var text string
	script := `window.__pagechat ? window.__pagechat.selection() : (window.getSelection() || '').toString()`
	if err := c.run(ctx, c.opts.Timeout(), chromedp.Evaluate(script, &text)); err != nil {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (c *Chrome) check(tab Tab) error {
	if !c.opened || (tab.ID != "" && tab.ID != c.tabID()) {
		return ErrNoActiveTab
	}
	return nil
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	c.cancelTab()
	c.cancelAlloc()
	return nil
}
