package page

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"pagechat/fetcher"
)

// mainSelector lists the containers that usually hold a page's main text.
const mainSelector = `article, main, [role="main"], .content, #content, .post-content, .article-content`

// minMainContent is the length below which the main containers are ignored
// in favour of the whole body.
const minMainContent = 100

// Options controls extraction limits and enrichment.
type Options struct {
	MaxContent  int
	MaxHeadings int
	MaxLinks    int
	MaxImages   int

	Readability    bool // add byline, excerpt and siteName metadata
	DetectLanguage bool // add language metadata
}

// DefaultOptions returns the standard caps with all enrichment enabled.
func DefaultOptions() Options {
	return Options{
		MaxContent:     MaxContent,
		MaxHeadings:    MaxHeadings,
		MaxLinks:       MaxLinks,
		MaxImages:      MaxImages,
		Readability:    true,
		DetectLanguage: true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxContent <= 0 {
		o.MaxContent = d.MaxContent
	}
	if o.MaxHeadings <= 0 {
		o.MaxHeadings = d.MaxHeadings
	}
	if o.MaxLinks <= 0 {
		o.MaxLinks = d.MaxLinks
	}
	if o.MaxImages <= 0 {
		o.MaxImages = d.MaxImages
	}
	return o
}

// Source provides the live HTML of a tab.
type Source interface {
	Content(ctx context.Context, tab fetcher.Tab) (string, error)
}

// Extractor builds Records from the tabs of a Source.
type Extractor struct {
	source Source
	opts   Options
}

// NewExtractor returns an Extractor reading through source.
func NewExtractor(source Source, opts Options) *Extractor {
	return &Extractor{source: source, opts: opts.withDefaults()}
}

// Extract reads the tab's document and builds its Record.
func (e *Extractor) Extract(ctx context.Context, tab fetcher.Tab) (*Record, error) {
	raw, err := e.source.Content(ctx, tab)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", tab.URL, err)
	}
	rec, err := FromHTML(tab.URL, raw, e.opts)
	if err != nil {
		return nil, err
	}
	if rec.Title == UntitledPage && tab.Title != "" {
		rec.Title = tab.Title
	}
	return rec, nil
}

// FromHTML builds a Record from a document. It returns ErrNoContent when the
// document has no visible text.
func FromHTML(rawURL, rawHTML string, opts Options) (*Record, error) {
	opts = opts.withDefaults()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	base, _ := url.Parse(rawURL) // nil when malformed

	rec := &Record{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		URL:      rawURL,
		Metadata: map[string]string{},
	}

	content := mainText(doc)
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}
	rec.MainContent = clip(content, opts.MaxContent)
	rec.ReadingTimeMinutes = ReadingTime(rec.MainContent)

	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := textContent(s.Get(0))
		if text != "" {
			name := goquery.NodeName(s)
			rec.Headings = append(rec.Headings, Heading{Level: int(name[1] - '0'), Text: text})
		}
		return len(rec.Headings) < opts.MaxHeadings
	})

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := textContent(s.Get(0))
		if text != "" {
			href, _ := s.Attr("href")
			rec.Links = append(rec.Links, Link{Text: text, Href: absolute(base, href)})
		}
		return len(rec.Links) < opts.MaxLinks
	})

	doc.Find("img[alt]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt != "" {
			rec.Images = append(rec.Images, Image{Alt: alt, Src: absolute(base, s.AttrOr("src", ""))})
		}
		return len(rec.Images) < opts.MaxImages
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			name = s.AttrOr("property", "")
		}
		if value := s.AttrOr("content", ""); name != "" && value != "" {
			rec.Metadata[name] = value
		}
	})

	if opts.Readability && base != nil {
		enrich(rec, rawHTML, base)
	}
	if opts.DetectLanguage {
		if lang, ok := DetectLanguage(rec.MainContent); ok {
			rec.Metadata["language"] = lang
		}
	}

	if rec.Title == "" {
		rec.Title = UntitledPage
	}
	return rec, nil
}

// mainText joins the text of the main containers, falling back to the body
// when they hold too little. Containers nested in an earlier match are
// skipped so their text is not repeated.
func mainText(doc *goquery.Document) string {
	var parts []string
	var picked []*html.Node

	doc.Find(mainSelector).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		for _, p := range picked {
			if contains(p, n) {
				return
			}
		}
		picked = append(picked, n)
		if text := InnerText(n); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, "\n\n")
	if utf8.RuneCountInString(text) >= minMainContent {
		return text
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return InnerText(body.Get(0))
	}
	return InnerText(doc.Get(0))
}

// enrich adds readability-derived metadata. Failures leave rec untouched.
func enrich(rec *Record, rawHTML string, base *url.URL) {
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(rawHTML), base)
	if err != nil {
		return
	}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			rec.Metadata[key] = value
		}
	}
	set("byline", article.Byline)
	set("excerpt", article.Excerpt)
	set("siteName", article.SiteName)
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(article.Title)
	}
}

func contains(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func absolute(base *url.URL, href string) string {
	if base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
