// Package intent classifies free-text chat messages into the coarse categories
// that decide how the assistant answers.
package intent

import "pagechat/keyword"

// Category is the coarse intent of a message.
type Category string

const (
	Summarize Category = "summarize"
	Explain   Category = "explain"
	Simplify  Category = "simplify"
	Search    Category = "search"
	Default   Category = "default"
)

// Keyword groups, in the order the rule table consults them.
var (
	SearchVerbs = []string{
		"search for", "search", "find", "look up", "google",
		"open", "go to", "show me", "take me to",
	}

	DomainNouns = []string{
		"cricket", "ipl", "score", "match", "news", "headlines",
		"weather", "forecast", "temperature", "stock", "share price",
		"market", "bitcoin", "crypto", "video", "youtube", "ai",
		"artificial intelligence", "technology", "tech", "recipe",
		"movie", "trailer", "football", "sports", "tutorial",
		"latest", "today",
	}

	QuestionStems = []string{
		"what is", "what are", "what's", "who is", "who was",
		"when is", "where is", "how to", "how do", "how does", "why is",
	}

	PageDeixis = []string{
		"this page", "this article", "this site", "this post",
		"this text", "here", "above",
	}

	SummarizeWords = []string{"summarize", "summarise", "summary", "tldr", "tl;dr", "key points"}
	ExplainWords   = []string{"explain", "what does", "what is", "meaning of"}
	SimplifyWords  = []string{"simplify", "simple", "simpler", "eli5", "plain english"}

	PageAnalysisWords = []string{"analyze", "analyse", "summarize", "summary", "explain this"}
)

// MinSearchTokens is the token count from which an otherwise unmatched
// message is treated as a web search.
const MinSearchTokens = 3

// Rule is one entry of the classification table. The first rule whose Match
// returns true decides the category.
type Rule struct {
	Name     string
	Category Category
	Match    func(text string) bool
}

var rules = []Rule{
	{
		Name:     "search-verb",
		Category: Search,
		Match:    func(s string) bool { return keyword.Any(s, SearchVerbs) },
	},
	{
		Name:     "domain-noun",
		Category: Search,
		Match:    func(s string) bool { return keyword.Any(s, DomainNouns) },
	},
	{
		Name:     "question-stem",
		Category: Search,
		Match: func(s string) bool {
			return keyword.Any(s, QuestionStems) && !keyword.Any(s, PageDeixis)
		},
	},
	{
		Name:     "summarize",
		Category: Summarize,
		Match:    func(s string) bool { return keyword.Any(s, SummarizeWords) },
	},
	{
		Name:     "explain",
		Category: Explain,
		Match:    func(s string) bool { return keyword.Any(s, ExplainWords) },
	},
	{
		Name:     "simplify",
		Category: Simplify,
		Match:    func(s string) bool { return keyword.Any(s, SimplifyWords) },
	},
	{
		Name:     "long-query",
		Category: Search,
		Match: func(s string) bool {
			return keyword.Count(s) >= MinSearchTokens && !keyword.Any(s, PageAnalysisWords)
		},
	},
}

// Rules returns the classification table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the category of text. Callers reject blank input before
// classifying; blank text classifies as Default.
func Classify(text string) Category {
	c, _ := Trace(text)
	return c
}

// Trace classifies text and also names the rule that decided it ("fallback"
// when no rule matched).
func Trace(text string) (Category, string) {
	for _, r := range rules {
		if r.Match(text) {
			return r.Category, r.Name
		}
	}
	return Default, "fallback"
}
