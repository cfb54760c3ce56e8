package extractor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a node tree from an HTML document. The parser is lenient, so
// malformed markup still yields a tree.
func Parse(body string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

// AllDescendants returns every node below root that satisfies match, in
// document order. A nil match selects every node.
func AllDescendants(root *html.Node, match func(*html.Node) bool) []*html.Node {
	if root == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match == nil || match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// IsElement returns a predicate matching element nodes named tag.
func IsElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// Attribute returns the value of the named attribute and whether it is
// present.
func Attribute(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Text concatenates the text content of n and its descendants.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for _, t := range AllDescendants(n, func(c *html.Node) bool { return c.Type == html.TextNode }) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}
