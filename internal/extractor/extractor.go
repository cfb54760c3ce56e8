// Package extractor pulls hyperlinks, image sources, and descriptive metadata
// out of HTML documents.
package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/JakeFAU/linkscout/internal/crawler"
	"github.com/JakeFAU/linkscout/internal/logsink"
)

// ErrParse marks a document that could not be turned into a node tree.
var ErrParse = errors.New("parse html")

// headingTag matches two-character tag names starting with "h". That covers
// h1 through h9 and also elements such as hr.
var headingTag = regexp.MustCompile(`^h[a-z0-9]$`)

// Extractor implements crawler.Extractor. Every call parses its input afresh.
type Extractor struct {
	recorder logsink.Recorder
	logger   *zap.Logger
}

// New builds an Extractor that records hard failures to recorder.
func New(recorder logsink.Recorder, logger *zap.Logger) *Extractor {
	if recorder == nil {
		recorder = logsink.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{recorder: recorder, logger: logger}
}

var _ crawler.Extractor = (*Extractor)(nil)

// ExtractLinks returns the href of every anchor followed by the src of every
// image, each group in document order. Missing or empty attributes are
// skipped. A document that cannot be parsed yields an empty slice.
func (e *Extractor) ExtractLinks(body string) (links []string) {
	defer func() {
		if r := recover(); r != nil {
			e.recorder.Record(logsink.LevelError, fmt.Sprintf("Error extracting URLs: %v", r))
			links = []string{}
		}
	}()

	doc, err := Parse(body)
	if err != nil {
		e.recorder.Record(logsink.LevelError, fmt.Sprintf("Error extracting URLs: %v", err))
		return []string{}
	}

	links = collectAttr(doc, "a", "href")
	links = append(links, collectAttr(doc, "img", "src")...)
	e.logger.Debug("Extracted links", zap.Int("count", len(links)))
	return links
}

func collectAttr(doc *html.Node, tag, attr string) []string {
	var out []string
	for _, n := range AllDescendants(doc, IsElement(tag)) {
		if v, ok := Attribute(n, attr); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ExtractMetadata reads the title, meta description, and headings of a page.
// Absent elements fall back to crawler.DefaultTitle and
// crawler.DefaultDescription. A hard failure is recorded and returned; the
// caller should not record it again.
func (e *Extractor) ExtractMetadata(body, url string) (meta crawler.PageMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrParse, r)
			e.recordMetadataError(url, err)
		}
	}()

	doc, err := Parse(body)
	if err != nil {
		e.recordMetadataError(url, err)
		return crawler.PageMetadata{}, err
	}

	sel := goquery.NewDocumentFromNode(doc)
	meta = crawler.PageMetadata{
		URL:             url,
		Title:           crawler.DefaultTitle,
		MetaDescription: crawler.DefaultDescription,
	}
	if title := sel.Find("title").First().Text(); title != "" {
		meta.Title = title
	}
	if content, _ := sel.Find(`meta[name="description"]`).First().Attr("content"); content != "" {
		meta.MetaDescription = content
	}

	for _, n := range AllDescendants(doc, isHeading) {
		meta.Headings = append(meta.Headings, crawler.Heading{
			Tag:  n.Data,
			Text: strings.TrimSpace(Text(n)),
		})
	}
	return meta, nil
}

func isHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && headingTag.MatchString(n.Data)
}

func (e *Extractor) recordMetadataError(url string, err error) {
	e.recorder.Record(logsink.LevelError, fmt.Sprintf("Error extracting metadata for URL %s: %v", url, err))
}
