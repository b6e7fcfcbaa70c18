// Package omnibox resolves free-text search queries to a single destination
// URL using an ordered table of topic rules.
package omnibox

import (
	"net/url"
	"strings"

	"pagechat/intent"
	"pagechat/keyword"
)

// DefaultFallback is the generic search used when no topic rule matches.
const DefaultFallback = "https://www.google.com/search?q=%s"

// Fillers are dropped from search terms along with the search verbs.
var Fillers = []string{
	"please", "latest", "today", "current", "now", "the", "me",
	"about", "for", "some",
}

// Resolution is the outcome of resolving a query.
type Resolution struct {
	URL  string // destination, always absolute
	Rule string // name of the rule that produced URL
	Term string // search term left after keyword stripping
}

// Rule is one topic group of the resolver table.
type Rule struct {
	Name     string
	Keywords []string // any one of these selects the rule
	Strip    []string // removed from the term in addition to Keywords

	keepKeywords bool // Keywords stay in the term; only Strip is removed
	build        func(query, term string) string
}

// Resolver maps queries to URLs. It holds no mutable state; Resolve is
// deterministic for a given query.
type Resolver struct {
	rules    []Rule
	fallback string
}

// NewResolver returns a Resolver using the default topic table. fallbackURL
// is a search template with a %s placeholder; empty selects DefaultFallback.
func NewResolver(fallbackURL string) *Resolver {
	if fallbackURL == "" {
		fallbackURL = DefaultFallback
	}
	return &Resolver{rules: DefaultRules(), fallback: fallbackURL}
}

// Rules returns the topic table in priority order.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Resolve returns the destination for query.
func (r *Resolver) Resolve(query string) Resolution {
	query = strings.TrimSpace(query)

	if addr, ok := directAddress(query); ok {
		return Resolution{URL: addr, Rule: "direct", Term: query}
	}

	for _, rule := range r.rules {
		if !keyword.AnyPrefix(query, rule.Keywords) {
			continue
		}
		drop := rule.Keywords
		if rule.keepKeywords {
			drop = nil
		}
		term := keyword.Strip(query, intent.SearchVerbs, Fillers, drop, rule.Strip)
		return Resolution{URL: rule.build(query, term), Rule: rule.Name, Term: term}
	}

	term := keyword.Strip(query, intent.SearchVerbs, Fillers)
	return Resolution{URL: r.fallbackURL(term), Rule: "fallback", Term: term}
}

func (r *Resolver) fallbackURL(term string) string {
	if strings.Contains(r.fallback, "%s") {
		return strings.Replace(r.fallback, "%s", url.QueryEscape(term), 1)
	}
	return r.fallback + url.QueryEscape(term)
}

// search builds base + escaped term, or home when the term is empty.
func search(base, home string) func(string, string) string {
	return func(_, term string) string {
		if term == "" {
			return home
		}
		return base + url.QueryEscape(term)
	}
}

// searchPath is search with the term as a path segment.
func searchPath(base, home string) func(string, string) string {
	return func(_, term string) string {
		if term == "" {
			return home
		}
		return base + url.PathEscape(term)
	}
}

var (
	cricketWords = []string{"cricket", "ipl", "t20", "odi", "test match"}
	aiWords      = []string{"artificial intelligence", "ai", "machine learning", "chatgpt", "openai", "llm"}
	techWords    = []string{"technology", "tech", "gadget", "smartphone"}
	musicWords   = []string{"music", "song", "spotify", "album", "playlist"}
	socialSites  = []struct {
		keywords []string
		base     string
		home     string
	}{
		{[]string{"reddit", "subreddit"}, "https://www.reddit.com/search/?q=", "https://www.reddit.com/"},
		{[]string{"twitter", "tweet"}, "https://x.com/search?q=", "https://x.com/"},
		{[]string{"instagram"}, "https://www.instagram.com/explore/search/keyword/?q=", "https://www.instagram.com/"},
		{[]string{"facebook"}, "https://www.facebook.com/search/top?q=", "https://www.facebook.com/"},
		{[]string{"linkedin"}, "https://www.linkedin.com/search/results/all/?keywords=", "https://www.linkedin.com/"},
	}
)

// DefaultRules returns the built-in topic table. Order matters: the first
// rule whose keywords occur in the query wins.
func DefaultRules() []Rule {
	var social []string
	for _, s := range socialSites {
		social = append(social, s.keywords...)
	}

	return []Rule{
		{
			Name:     "cricket",
			Keywords: cricketWords,
			Strip:    []string{"live", "score", "match"},
			build: func(q, _ string) string {
				if keyword.AnyPrefix(q, []string{"live", "score"}) {
					return "https://www.cricbuzz.com/cricket-match/live-scores"
				}
				return "https://www.cricbuzz.com/"
			},
		},
		{
			Name:     "ai-tech",
			Keywords: append(append([]string{}, aiWords...), techWords...),
			Strip:    []string{"news"},
			build: func(q, _ string) string {
				if keyword.AnyPrefix(q, aiWords) {
					return "https://techcrunch.com/category/artificial-intelligence/"
				}
				return "https://www.theverge.com/tech"
			},
		},
		{
			Name:     "news",
			Keywords: []string{"news", "headlines", "breaking"},
			build:    search("https://news.google.com/search?q=", "https://news.google.com/"),
		},
		{
			Name:     "weather",
			Keywords: []string{"weather", "forecast", "temperature", "rain", "humidity"},
			Strip:    []string{"in", "at", "of", "what's", "what is", "how is"},
			build: func(q, _ string) string {
				if c, ok := LookupCity(q); ok {
					return "https://openweathermap.org/find?q=" + c.Param()
				}
				return "https://weather.com/weather/today"
			},
		},
		{
			Name:     "finance",
			Keywords: []string{"stock", "share price", "market", "nifty", "sensex", "bitcoin", "crypto", "price"},
			Strip:    []string{"stock", "share price", "market", "price", "of"},

			keepKeywords: true,
			build:        search("https://finance.yahoo.com/lookup?s=", "https://finance.yahoo.com/"),
		},
		{
			Name:     "video",
			Keywords: []string{"video", "youtube", "watch", "clip"},
			build:    search("https://www.youtube.com/results?search_query=", "https://www.youtube.com/"),
		},
		{
			Name:     "social",
			Keywords: social,
			Strip:    []string{"on", "posts"},
			build: func(q, term string) string {
				for _, s := range socialSites {
					if keyword.AnyPrefix(q, s.keywords) {
						return search(s.base, s.home)(q, term)
					}
				}
				return "https://www.reddit.com/"
			},
		},
		{
			Name:     "shopping",
			Keywords: []string{"buy", "shop", "shopping", "amazon", "flipkart", "deal", "cheapest"},
			Strip:    []string{"on", "online"},
			build: func(q, term string) string {
				if keyword.Match(q, "flipkart") {
					return search("https://www.flipkart.com/search?q=", "https://www.flipkart.com/")(q, term)
				}
				return search("https://www.amazon.in/s?k=", "https://www.amazon.in/")(q, term)
			},
		},
		{
			Name:     "knowledge",
			Keywords: []string{"wikipedia", "wiki", "who is", "who was", "what is", "what are", "history of", "meaning of", "define", "definition"},
			Strip:    []string{"of", "a", "an"},
			build:    search("https://en.wikipedia.org/wiki/Special:Search?search=", "https://en.wikipedia.org/"),
		},
		{
			Name:     "how-to",
			Keywords: []string{"how to", "how do i", "how do", "tutorial", "guide", "step by step"},
			build:    search("https://www.wikihow.com/wikiHowTo?search=", "https://www.wikihow.com/"),
		},
		{
			Name:     "sports",
			Keywords: []string{"football", "soccer", "nba", "tennis", "f1", "formula 1", "sports", "score", "match"},
			Strip:    []string{"result", "live"},
			build:    searchPath("https://www.espn.com/search/_/q/", "https://www.espn.com/"),
		},
		{
			Name:     "entertainment",
			Keywords: append([]string{"movie", "film", "trailer", "actor", "imdb", "tv show"}, musicWords...),
			build: func(q, term string) string {
				if keyword.AnyPrefix(q, musicWords) {
					return searchPath("https://open.spotify.com/search/", "https://open.spotify.com/")(q, term)
				}
				return search("https://www.imdb.com/find/?q=", "https://www.imdb.com/")(q, term)
			},
		},
		{
			Name:     "recipes",
			Keywords: []string{"recipe", "cook", "cooking", "dish", "bake"},
			Strip:    []string{"how to", "make"},
			build:    search("https://www.allrecipes.com/search?q=", "https://www.allrecipes.com/"),
		},
	}
}

// directAddress reports whether query names an address outright: a single
// URL-like token, optionally preceded only by search verbs and fillers
// ("open github.com", "go to https://go.dev").
func directAddress(query string) (string, bool) {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "", false
	}
	last := strings.TrimRight(fields[len(fields)-1], "?!,;")
	if !looksLikeURL(last) {
		return "", false
	}
	lead := strings.Join(fields[:len(fields)-1], " ")
	if keyword.Strip(lead, intent.SearchVerbs, Fillers) != "" {
		return "", false
	}
	lower := strings.ToLower(last)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return last, true
	}
	return "https://" + last, true
}

var tlds = []string{
	".com", ".org", ".net", ".io", ".dev", ".co", ".me", ".app",
	".edu", ".gov", ".uk", ".in", ".de", ".fr", ".jp", ".au", ".ca",
	".info", ".biz", ".tv", ".cc", ".xyz", ".tech", ".ai",
}

// looksLikeURL checks if a token is a URL: an http(s) scheme, a host with a
// known TLD, localhost or a loopback address.
func looksLikeURL(token string) bool {
	if strings.ContainsAny(token, " \t") || token == "" {
		return false
	}
	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(token)
		return err == nil && u.Host != ""
	}
	if strings.HasPrefix(lower, "localhost") || strings.HasPrefix(lower, "127.") {
		return true
	}

	host := lower
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if strings.HasPrefix(host, ".") {
		return false
	}
	for _, tld := range tlds {
		if strings.HasSuffix(host, tld) && len(host) > len(tld) {
			return true
		}
	}
	return false
}
