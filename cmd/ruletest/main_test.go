package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/omnibox"
)

func TestRun(t *testing.T) {
	in := strings.NewReader("# cases\nweather in Mumbai\n\nsummarize\n")
	var out bytes.Buffer
	require.NoError(t, run(in, &out, omnibox.NewResolver("")))
	assert.Equal(t,
		"search\tdomain-noun/weather\thttps://openweathermap.org/find?q=Mumbai,IN\n"+
			"summarize\tsummarize\t-\n",
		out.String())
}

func TestListRules(t *testing.T) {
	var out bytes.Buffer
	listRules(&out, omnibox.NewResolver(""))
	s := out.String()
	assert.Contains(t, s, "=== Intent rules ===")
	assert.Contains(t, s, " 1. search-verb")
	assert.Contains(t, s, "weather")
	assert.Less(t, strings.Index(s, "Intent rules"), strings.Index(s, "Resolver rules"))
}
