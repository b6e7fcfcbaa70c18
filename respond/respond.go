// Package respond turns an intent and the extracted page into the assistant's
// reply. Every reply comes from a fixed template; nothing is generated.
package respond

import (
	"strings"
	"text/template"

	"pagechat/intent"
	"pagechat/page"
	tmpl "pagechat/template"
)

var engine = tmpl.New()

var pageTemplates = map[intent.Category]*template.Template{
	intent.Summarize: engine.Must("summarize", `Summary of "{{.Title}}":

{{with limit 3 .Headings}}Key sections: {{join ", " .}}

{{end}}{{if .Content}}{{excerpt 250 .Content}}{{else}}Content available{{end}}

This provides an overview of the main topics discussed on this page.`),

	intent.Explain: engine.Must("explain", `Explanation of "{{.Title}}":

{{if .Content}}{{excerpt 200 .Content}}{{else}}This page contains{{end}}

The content discusses various aspects of the topic. What specific part would you like me to explain further?`),

	intent.Simplify: engine.Must("simplify", `In simple terms:

This page about "{{.Title}}" covers: {{if .Content}}{{excerpt 150 .Content}}{{else}}various topics{{end}}

Let me know if you need any part explained more simply!`),

	intent.Default: engine.Must("default", `Regarding "{{.Title}}":

{{if .Content}}{{excerpt 200 .Content}}{{else}}This page discusses{{end}}

Feel free to ask me specific questions about the content!`),
}

var fallbacks = map[intent.Category]string{
	intent.Summarize: AnalyzeFirstSummarize,
	intent.Explain:   AnalyzeFirstExplain,
	intent.Simplify:  AnalyzeFirstSimplify,
	intent.Default:   AnalyzeFirstDefault,
}

// view is the data every page template sees.
type view struct {
	Title    string
	URL      string
	Content  string
	Headings []string
}

func newView(rec *page.Record) view {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = page.UntitledPage
	}
	return view{
		Title:    title,
		URL:      rec.URL,
		Content:  tmpl.Collapse(rec.MainContent),
		Headings: rec.HeadingTexts(-1),
	}
}

// Fallback returns the fixed reply for c when no page has been analyzed.
// Categories without their own message get the default one.
func Fallback(c intent.Category) string {
	if msg, ok := fallbacks[c]; ok {
		return msg
	}
	return AnalyzeFirstDefault
}

// Synthesize builds the reply for c. A site visit produces the site report;
// otherwise rec is rendered with the category's template, and a nil rec
// yields the fallback. The result is never empty.
func Synthesize(c intent.Category, rec *page.Record, site *SiteVisit) string {
	if site != nil && site.Page != nil {
		return SiteReport(site)
	}
	if rec == nil {
		return Fallback(c)
	}
	t, ok := pageTemplates[c]
	if !ok {
		t = pageTemplates[intent.Default]
	}
	return render(t, newView(rec), Fallback(c))
}

// render executes t and trims the result, returning alt if execution fails
// or yields nothing.
func render(t *template.Template, data any, alt string) string {
	out, err := tmpl.Execute(t, data)
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		return alt
	}
	return out
}

// Templates is the template-backed synthesizer the assistant uses.
type Templates struct{}

func (Templates) Synthesize(c intent.Category, rec *page.Record, site *SiteVisit) string {
	return Synthesize(c, rec, site)
}

func (Templates) Fallback(c intent.Category) string { return Fallback(c) }

func (Templates) Analysis(rec *page.Record) string { return Analysis(rec) }

func (Templates) Summary(rec *page.Record) string { return Summary(rec) }

func (Templates) ExplainSelection(text string, rec *page.Record) string {
	return ExplainSelection(text, rec)
}
