package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		kw   string
		want bool
	}{
		{"exact word", "latest ai news", "ai", true},
		{"case insensitive", "Latest AI News", "ai", true},
		{"short keyword inside word", "explain this", "ai", false},
		{"short keyword as prefix", "aim higher", "ai", false},
		{"here inside there", "is there more", "here", false},
		{"here as word", "what is written here", "here", true},
		{"plural suffix", "cricket scores today", "score", true},
		{"possessive suffix", "today's match", "today", true},
		{"es suffix", "match results and matches", "matches", true},
		{"no partial word", "explain how matching works", "match", false},
		{"keyword not at word start", "underscore", "score", false},
		{"phrase", "please search for cats", "search for", true},
		{"phrase with punctuation", "tl;dr please", "tl;dr", true},
		{"non-word first rune", "www.whitehouse.gov", ".gov", true},
		{"absent", "hello world", "weather", false},
		{"empty keyword", "hello", "", false},
		{"keyword longer than text", "ai", "artificial", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.text, tt.kw))
		})
	}
}

func TestMatchPrefix(t *testing.T) {
	tests := []struct {
		name string
		text string
		kw   string
		want bool
	}{
		{"agent noun", "cricketers live score", "cricket", true},
		{"compound word", "cricket scoreboard", "score", true},
		{"compound at end", "cricket livestream", "live", true},
		{"phrase runs on", "latest tech newsletters", "tech news", true},
		{"whole word still matches", "live cricket", "live", true},
		{"left boundary kept", "underscore", "score", false},
		{"inside word", "deliver", "live", false},
		{"short keyword stays whole", "air quality", "ai", false},
		{"short keyword with suffix", "odis this year", "odi", true},
		{"short keyword in longer word", "odisha rains", "odi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPrefix(tt.text, tt.kw))
		})
	}

	assert.True(t, AnyPrefix("cricket scoreboard", []string{"live", "score"}))
	assert.False(t, Any("cricket scoreboard", []string{"live", "score"}))
}

func TestFirstRespectsSliceOrder(t *testing.T) {
	kw, ok := First("show me the weather news", []string{"news", "weather"})
	assert.True(t, ok)
	assert.Equal(t, "news", kw)

	_, ok = First("nothing here", []string{"cricket"})
	assert.False(t, ok)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		groups [][]string
		want   string
	}{
		{
			name:   "search verb",
			text:   "search for Go generics",
			groups: [][]string{{"search for", "search"}},
			want:   "Go generics",
		},
		{
			name:   "keyword with plural suffix",
			text:   "funny cat videos",
			groups: [][]string{{"video"}},
			want:   "funny cat",
		},
		{
			name:   "several groups keep casing",
			text:   "Please find Pasta Carbonara recipes?",
			groups: [][]string{{"find"}, {"please"}, {"recipe"}},
			want:   "Pasta Carbonara",
		},
		{
			name:   "nothing left",
			text:   "google",
			groups: [][]string{{"google"}},
			want:   "",
		},
		{
			name:   "short keyword only whole words",
			text:   "ai explained",
			groups: [][]string{{"ai"}},
			want:   "explained",
		},
		{
			name:   "prefix words survive",
			text:   "weather in india at atlanta",
			groups: [][]string{{"in", "at"}},
			want:   "weather india atlanta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.text, tt.groups...))
		})
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count("   "))
	assert.Equal(t, 3, Count(" one  two three "))
}
