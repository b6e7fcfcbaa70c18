package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url   string
		title string
		want  Kind
	}{
		{"https://www.espncricinfo.com/live-cricket-score", "", Cricket},
		{"https://www.cricbuzz.com/cricket-match/live-scores", "", Cricket},
		{"https://www.espn.com/nba/", "", SportsNews},
		{"https://techcrunch.com/category/artificial-intelligence/", "", TechNews},
		{"https://www.theverge.com/tech", "", TechNews},
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", "", Encyclopedia},
		{"https://www.bbc.co.uk/news", "", NewsMedia},
		{"https://openweathermap.org/find?q=Mumbai,IN", "", Weather},
		{"https://www.youtube.com/results?search_query=go", "", Video},
		{"https://github.com/golang/go", "", CodeHost},
		{"https://stackoverflow.com/questions/1", "", DevQA},
		{"https://www.gov.uk/", "", Government},
		{"https://india.gov.in/", "", Government},
		{"https://www.whitehouse.gov/", "", Government},
		{"https://data.gov.in/catalogs", "", Government},
		{"https://www.edutopia.org/", "", General},
		{"https://web.mit.edu/", "", Education},
		{"https://www.amazon.in/s?k=shoes", "", Shopping},
		{"https://shop.example.com/", "", Shopping},
		{"https://blog.golang.org/", "", Blog},
		{"https://example.com/post", "My Blog", Blog},
		{"https://example.com/blog/post", "", Blog},
		{"https://example.com/weather/today", "", Weather},
		{"https://example.com/shop/shoes", "", Shopping},
		{"https://www.bbc.co.uk/weather", "", NewsMedia},
		{"https://example.com/", "Example Domain", General},
		{"not a url", "", General},
		{"GITHUB.COM/golang", "", CodeHost},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url, tt.title))
		})
	}
}

func TestClassifyQueryDoesNotLeak(t *testing.T) {
	// Site-name rules look at the host only.
	assert.Equal(t, General, Classify("https://example.com/?ref=github", ""))
	assert.Equal(t, General, Classify("https://example.com/go/wikipedia-mirror", ""))
}

func TestDescriptions(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		d := k.Description()
		assert.NotEmpty(t, d, k)
		assert.False(t, seen[d], "duplicate description for %s", k)
		seen[d] = true
	}
	assert.Len(t, Kinds(), 14)
	assert.Equal(t, General.Description(), Kind("Unknown").Description())
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "cricbuzz.com", Domain("https://www.cricbuzz.com/a"))
	assert.Equal(t, "en.wikipedia.org", Domain("https://en.wikipedia.org/wiki/X"))
	assert.Equal(t, "example.com", Domain("example.com/path"))
}
