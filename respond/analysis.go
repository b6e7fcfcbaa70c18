package respond

import (
	"fmt"
	"strings"

	"pagechat/page"
	"pagechat/sites"
	tmpl "pagechat/template"
)

var analysisTemplate = engine.Must("analysis", `📄 {{bold "Page Analysis"}}

{{bold "Title:"}} {{.Title}}

{{bold "URL:"}} {{excerpt 50 .URL}}

{{bold "Reading Time:"}} {{plural .Minutes "minute"}}

{{bold "Structure:"}} This page has {{len .Headings}} main sections.

{{with limit 5 .Headings}}{{bold "Main Topics:"}}
{{range .}}{{bullet .}}
{{end}}
{{end}}{{bold "Content:"}} Approximately {{.Words}} words of content.

{{with .Language}}{{bold "Language:"}} {{.}}

{{end}}{{bold "Website Type:"}} {{.Kind}}

Feel free to ask me questions about this page!`)

var summaryTemplate = engine.Must("summary", `📝 {{bold (print "Summary of \"" .Title "\"")}}

{{with limit 5 .Headings}}This page covers the following topics:

{{range $i, $h := .}}{{add $i 1}}. {{$h}}
{{end}}
{{end}}{{bold "Overview:"}} {{excerpt 300 .Content}}

Would you like me to explain any specific section in more detail?`)

type analysisView struct {
	view
	Minutes  int
	Words    int
	Language string
	Kind     sites.Kind
}

// Analysis reports the structure of rec: reading time, sections, size,
// language and the kind of site it came from.
func Analysis(rec *page.Record) string {
	if rec == nil {
		return AnalyzeFailed
	}
	v := newView(rec)
	minutes := rec.ReadingTimeMinutes
	if minutes <= 0 {
		minutes = page.ReadingTime(rec.MainContent)
	}
	return render(analysisTemplate, analysisView{
		view:     v,
		Minutes:  minutes,
		Words:    page.WordCount(rec.MainContent),
		Language: rec.Meta("language"),
		Kind:     sites.Classify(rec.URL, v.Title),
	}, AnalyzeFailed)
}

// Summary lists up to five sections of rec and the opening of its text.
func Summary(rec *page.Record) string {
	if rec == nil {
		return SummarizeFailed
	}
	return render(summaryTemplate, newView(rec), SummarizeFailed)
}

// ExplainSelection frames a selected fragment for explanation, quoting its
// first 150 characters. rec names the page it came from and may be nil.
func ExplainSelection(text string, rec *page.Record) string {
	about := "specific content"
	if rec != nil {
		about = "content from the page about " + newView(rec).Title
	}
	return fmt.Sprintf("I can help explain this text:\n\n\"%s\"\n\nThis appears to be discussing %s. What would you like to know about it?",
		tmpl.Excerpt(150, strings.TrimSpace(text)), about)
}

// SelectionEcho is the user turn recorded for a selection quick action.
func SelectionEcho(text string) string {
	return fmt.Sprintf("You selected: \"%s\"", tmpl.Excerpt(100, strings.TrimSpace(text)))
}
