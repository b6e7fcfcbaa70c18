// Package sites classifies a visited website into a coarse kind from its
// address, for the report shown after a search navigation.
package sites

import (
	"net/url"
	"slices"
	"strings"

	"pagechat/keyword"
)

// Kind is a website category label.
type Kind string

const (
	Cricket      Kind = "Cricket Sports Website"
	SportsNews   Kind = "Sports News Website"
	TechNews     Kind = "Technology News Website"
	Encyclopedia Kind = "Online Encyclopedia"
	NewsMedia    Kind = "News Media Website"
	Weather      Kind = "Weather Information Website"
	Video        Kind = "Video Streaming Platform"
	CodeHost     Kind = "Code Repository Platform"
	DevQA        Kind = "Developer Q&A Forum"
	Government   Kind = "Government Website"
	Education    Kind = "Educational Institution Website"
	Shopping     Kind = "E-commerce Shopping Website"
	Blog         Kind = "Blog Website"
	General      Kind = "General Website"
)

var descriptions = map[Kind]string{
	Cricket:      "This website provides cricket news, live scores, match schedules and player statistics.",
	SportsNews:   "This website covers sports news, scores and analysis across many sports.",
	TechNews:     "This website publishes technology news, product reviews and analysis of the tech industry.",
	Encyclopedia: "This is a free online encyclopedia with articles written collaboratively by volunteers.",
	NewsMedia:    "This is a news organisation reporting on current events from around the world.",
	Weather:      "This website provides weather forecasts, current conditions and climate information.",
	Video:        "This platform hosts videos that you can watch, share and comment on.",
	CodeHost:     "This platform hosts source code repositories and supports collaborative software development.",
	DevQA:        "This is a question and answer community for programmers.",
	Government:   "This is an official government website providing public information and services.",
	Education:    "This is the website of an educational institution.",
	Shopping:     "This is an online store where you can browse and buy products.",
	Blog:         "This is a blog with articles and posts written by its authors.",
	General:      "This website provides information on a variety of topics.",
}

// Description returns the one-sentence description of k.
func (k Kind) Description() string {
	if d, ok := descriptions[k]; ok {
		return d
	}
	return descriptions[General]
}

type rule struct {
	kind  Kind
	match func(a address) bool
}

// address is what a rule looks at: the lower-cased host and full URL, and
// the page title.
type address struct {
	host, url, title string
}

func hostHas(subs ...string) func(address) bool {
	return func(a address) bool {
		return containsAny(a.host, subs)
	}
}

// urlHas matches anywhere in the URL, path and query included.
func urlHas(subs ...string) func(address) bool {
	return func(a address) bool {
		return containsAny(a.url, subs)
	}
}

// hostLabel matches hosts with a dot-separated label equal to one of labels,
// so "gov.uk" and "mit.edu" match but "edutopia.org" does not.
func hostLabel(labels ...string) func(address) bool {
	return func(a address) bool {
		for _, part := range strings.Split(a.host, ".") {
			if slices.Contains(labels, part) {
				return true
			}
		}
		return false
	}
}

func either(fs ...func(address) bool) func(address) bool {
	return func(a address) bool {
		for _, f := range fs {
			if f(a) {
				return true
			}
		}
		return false
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{Cricket, hostHas("cricket", "cricinfo", "cricbuzz")},
	{SportsNews, hostHas("espn")},
	{TechNews, hostHas("techcrunch", "theverge", "wired")},
	{Encyclopedia, hostHas("wikipedia")},
	{NewsMedia, hostHas("bbc", "cnn", "reuters")},
	{Weather, urlHas("weather")},
	{Video, hostHas("youtube")},
	{CodeHost, hostHas("github")},
	{DevQA, hostHas("stackoverflow")},
	{Government, either(hostHas(".gov"), hostLabel("gov"))},
	{Education, hostLabel("edu")},
	{Shopping, either(hostHas("amazon", "flipkart"), urlHas("shop"))},
	{Blog, func(a address) bool {
		return strings.Contains(a.url, "blog") || keyword.Match(a.title, "blog")
	}},
}

// Classify returns the kind of the site at rawURL. Most rules look at the
// host alone; weather, shop and blog also match in the path or query, and
// the title is consulted only for blogs.
func Classify(rawURL, title string) Kind {
	a := address{
		host:  hostOf(rawURL),
		url:   strings.ToLower(strings.TrimSpace(rawURL)),
		title: title,
	}
	for _, r := range rules {
		if r.match(a) {
			return r.kind
		}
	}
	return General
}

// Kinds returns every kind in rule order, General last.
func Kinds() []Kind {
	out := make([]Kind, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.kind)
	}
	return append(out, General)
}

// Domain returns the host of rawURL without a leading "www.".
func Domain(rawURL string) string {
	return strings.TrimPrefix(hostOf(rawURL), "www.")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		// Scheme-less input such as "example.com/path".
		s := strings.ToLower(strings.TrimSpace(rawURL))
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		return s
	}
	return strings.ToLower(u.Hostname())
}
