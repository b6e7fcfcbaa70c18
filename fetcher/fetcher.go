// Package fetcher drives the tab the assistant reads from and navigates: a
// persistent Chrome tab through chromedp, or a plain HTTP tab that keeps the
// last fetched document.
package fetcher

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoActiveTab is returned when no page is open.
	ErrNoActiveTab = errors.New("no active tab")
	// ErrBlocked is returned when a page turned out to be a bot wall.
	ErrBlocked = errors.New("page blocked")
	// ErrNavigation is returned when a page could not be loaded.
	ErrNavigation = errors.New("navigation failed")
)

// Tab identifies the page currently open in a driver.
type Tab struct {
	ID    string
	URL   string
	Title string
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	ChromePath     string        // Path to Chrome binary (empty = auto-detect)
	Headless       bool          // Chrome only
	Settle         time.Duration // fixed wait after a navigation
	WaitReady      bool          // wait for <body> before settling
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		TimeoutSeconds: 30,
		Headless:       true,
		Settle:         3 * time.Second,
		WaitReady:      true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = d.TimeoutSeconds
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return o
}

// Timeout returns the per-operation timeout.
func (o Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// userDataDir returns a persistent directory for Chrome user data.
// This allows cookies and other session data to persist between runs.
func userDataDir() string {
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "pagechat-chrome-profile")
}

// IsGoogleSearch returns true if the URL is a Google search URL.
func IsGoogleSearch(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, "google.") && strings.HasPrefix(u.Path, "/search")
}

// OptimizeGoogleURL adds parameters to Google URLs that help avoid bot detection.
func OptimizeGoogleURL(urlStr string) string {
	if !IsGoogleSearch(urlStr) {
		return urlStr
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	q := u.Query()
	// Basic HTML version, fixed locale, no personalization
	q.Set("gbv", "1")
	q.Set("hl", "en")
	q.Set("gl", "us")
	q.Set("pws", "0")
	u.RawQuery = q.Encode()
	return u.String()
}

// IsBlockedResponse checks if the HTML indicates a blocked/challenged page.
func IsBlockedResponse(html string) (bool, string) {
	switch {
	case strings.Contains(html, "unusual traffic from your computer"),
		strings.Contains(html, "detected unusual traffic"):
		return true, "Google CAPTCHA"
	case strings.Contains(html, "recaptcha") && len(html) < 10000:
		return true, "reCAPTCHA challenge"
	case strings.Contains(html, "Just a moment..."),
		strings.Contains(html, "Checking your browser"),
		strings.Contains(html, "cf-browser-verification"):
		return true, "Cloudflare challenge"
	case strings.Contains(html, "Before you continue") && strings.Contains(html, "consent.google"):
		return true, "Google consent page"
	// DataDome bot protection (used by Reuters, WSJ, etc.)
	case strings.Contains(html, "captcha-delivery.com"), strings.Contains(html, "DataDome"):
		return true, "DataDome bot protection"
	case strings.Contains(html, "akam/") && len(html) < 5000:
		return true, "Akamai bot protection"
	case strings.Contains(html, "perimeterx"), strings.Contains(html, "px-captcha"):
		return true, "PerimeterX bot protection"
	}
	return false, ""
}
