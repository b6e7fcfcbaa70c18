package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Category
		rule string
	}{
		{"search verb", "search for golang generics", Search, "search-verb"},
		{"search verb beats page deixis", "search for more on this page", Search, "search-verb"},
		{"take me to", "take me to github.com", Search, "search-verb"},
		{"domain noun", "weather in Mumbai", Search, "domain-noun"},
		{"domain noun plural", "cricket scores", Search, "domain-noun"},
		{"question stem", "who is Ada Lovelace", Search, "question-stem"},
		{"question stem about page", "what is this page about", Explain, "explain"},
		{"question stem with here", "what is discussed here", Explain, "explain"},
		{"summarize", "summarize", Summarize, "summarize"},
		{"summary about page", "give me a summary of this article", Summarize, "summarize"},
		{"explain", "explain this", Explain, "explain"},
		{"ai inside explain is not a noun", "explain the second section", Explain, "explain"},
		{"simplify", "simplify", Simplify, "simplify"},
		{"eli5", "eli5 please", Simplify, "simplify"},
		{"long free text", "tell me about kubernetes operators", Search, "long-query"},
		{"long text about the page", "tell me more about this article", Search, "long-query"},
		{"long text with here", "tell me more here please", Search, "long-query"},
		{"long text naming the page", "give details about this page", Search, "long-query"},
		{"long text with analysis word", "please analyze it now", Default, "fallback"},
		{"short free text", "hello", Default, "fallback"},
		{"two tokens", "thanks friend", Default, "fallback"},
		{"case insensitive", "SEARCH FOR cats", Search, "search-verb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := Trace(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestRulesOrder(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"search-verb", "domain-noun", "question-stem",
		"summarize", "explain", "simplify", "long-query",
	}, names)
}

func TestRulesReturnsCopy(t *testing.T) {
	r := Rules()
	r[0].Name = "changed"
	assert.Equal(t, "search-verb", Rules()[0].Name)
}
