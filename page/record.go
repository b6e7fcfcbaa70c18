// Package page holds the record extracted from a loaded web page and the
// extractor that builds it.
package page

import "errors"

// ErrNoContent is returned when a page yields no readable text.
var ErrNoContent = errors.New("page has no readable content")

// Default caps applied by the extractor.
const (
	MaxContent  = 5000
	MaxHeadings = 20
	MaxLinks    = 10
	MaxImages   = 5

	UntitledPage = "Untitled Page"
	wordsPerMin  = 200
)

// Record is a snapshot of one page. It is built once per extraction and not
// modified afterwards.
type Record struct {
	Title              string            `json:"title" yaml:"title"`
	URL                string            `json:"url" yaml:"url"`
	MainContent        string            `json:"mainContent" yaml:"mainContent"`
	Headings           []Heading         `json:"headings" yaml:"headings"`
	Links              []Link            `json:"links" yaml:"links"`
	Images             []Image           `json:"images" yaml:"images"`
	Metadata           map[string]string `json:"metadata" yaml:"metadata"`
	ReadingTimeMinutes int               `json:"readingTimeMinutes" yaml:"readingTimeMinutes"`
}

// Heading is an h1-h6 element.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

type Image struct {
	Alt string `json:"alt" yaml:"alt"`
	Src string `json:"src" yaml:"src"`
}

// HeadingTexts returns the text of the first n headings.
func (r *Record) HeadingTexts(n int) []string {
	if r == nil {
		return nil
	}
	if n > len(r.Headings) || n < 0 {
		n = len(r.Headings)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.Headings[i].Text
	}
	return out
}

// Meta returns the metadata value for key, or "".
func (r *Record) Meta(key string) string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

// ReadingTime estimates minutes to read text at 200 words per minute,
// never less than one.
func ReadingTime(text string) int {
	words := WordCount(text)
	mins := (words + wordsPerMin - 1) / wordsPerMin
	if mins < 1 {
		return 1
	}
	return mins
}
