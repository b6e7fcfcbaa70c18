package respond

import (
	"strings"

	"pagechat/page"
	"pagechat/sites"
	tmpl "pagechat/template"
)

// SiteVisit is the page reached by a search navigation.
type SiteVisit struct {
	Query string
	URL   string
	Page  *page.Record
}

// SuggestedActions closes every site report.
var SuggestedActions = []string{
	"Summarize this page",
	"Explain a specific section",
	"Simplify the content",
	"Analyze the page structure",
}

const summaryLimit = 400

var siteTemplate = engine.Must("site", `🔍 {{bold "Search Results"}}{{with .Query}} for "{{.}}"{{end}}

{{bold "Website:"}} {{.Domain}}
{{bold "Title:"}} {{.Title}}
{{bold "URL:"}} {{.URL}}
{{bold "Type:"}} {{.Kind}}

{{.Description}}
{{with .Snippet}}
{{bold "Preview:"}} {{.}}
{{end}}{{with .Summary}}
{{bold "Summary:"}} {{.}}
{{end}}
{{bold "You can ask me to:"}}
{{range .Actions}}{{bullet .}}
{{end}}`)

type siteView struct {
	Query       string
	Domain      string
	Title       string
	URL         string
	Kind        sites.Kind
	Description string
	Snippet     string
	Summary     string
	Actions     []string
}

// SiteReport describes the page reached by a search: where it is, what kind
// of site it is and what it says.
func SiteReport(v *SiteVisit) string {
	rec := v.Page
	addr := rec.URL
	if addr == "" {
		addr = v.URL
	}
	p := newView(rec)
	kind := sites.Classify(addr, p.Title)

	snippet := rec.Meta("description")
	if snippet == "" {
		snippet = rec.Meta("excerpt")
	}
	if snippet == "" {
		snippet = tmpl.Excerpt(200, p.Content)
	}

	sv := siteView{
		Query:       strings.TrimSpace(v.Query),
		Domain:      sites.Domain(addr),
		Title:       p.Title,
		URL:         addr,
		Kind:        kind,
		Description: kind.Description(),
		Snippet:     tmpl.Collapse(snippet),
		Summary:     summarize(p.Content, summaryLimit),
		Actions:     SuggestedActions,
	}
	return render(siteTemplate, sv, AnalyzeFirstDefault)
}

// summarize returns whole leading sentences of text fitting in limit runes.
// When the first sentence alone is too long it is cut with an ellipsis.
func summarize(text string, limit int) string {
	if len([]rune(text)) <= limit {
		return text
	}
	var b strings.Builder
	n := 0
	for _, s := range sentences(text) {
		l := len([]rune(s))
		if b.Len() > 0 {
			l++
		}
		if n+l > limit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		n += l
	}
	if b.Len() == 0 {
		return tmpl.Clip(limit-len(tmpl.Ellipsis), text) + tmpl.Ellipsis
	}
	return b.String()
}

// sentences splits collapsed text after ".", "!" or "?" followed by a space.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' {
				out = append(out, text[start:i+1])
				start = i + 2
			}
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
