package crawler

import (
	"time"
)

// Defaults applied when a page lacks the corresponding element.
const (
	DefaultTitle       = "No Title"
	DefaultDescription = "No Description"
)

// FetchResult is the outcome of fetching one seed URL. A result with a nil
// Err is a success whose Body may still be empty.
type FetchResult struct {
	URL        string
	Body       []byte
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Failed reports whether the fetch did not produce a usable response.
func (r FetchResult) Failed() bool {
	return r.Err != nil
}

// Empty reports whether a successful fetch returned no content.
func (r FetchResult) Empty() bool {
	return !r.Failed() && len(r.Body) == 0
}

// Heading is one heading element found in a page.
type Heading struct {
	Tag  string
	Text string
}

// String renders the heading as "<tag>: <text>".
func (h Heading) String() string {
	return h.Tag + ": " + h.Text
}

// PageMetadata captures the descriptive fields extracted from a page.
type PageMetadata struct {
	URL             string
	Title           string
	MetaDescription string
	Headings        []Heading
}

// Summary tallies the outcome of one Crawl call.
type Summary struct {
	RunID     string
	Seeds     int
	Succeeded int
	Empty     int
	Failed    int
	Errored   int
	Extracted int
	Duration  time.Duration
}
