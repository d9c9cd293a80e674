package cleaner

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// ContentMetrics captures the structural and textual signals of a single
// DOM element. It is computed once per node per filter pass and discarded;
// nothing here is cached between calls.
type ContentMetrics struct {
	// TagName is the lowercase element name.
	TagName string

	// TextLength is the length of the element's trimmed text content.
	TextLength int

	// TagLength is the length of the element's serialized outer HTML.
	TagLength int

	// LinkTextLength is the combined length of text inside descendant
	// anchor elements.
	LinkTextLength int

	// ClassID is the lowercased concatenation of the class and id
	// attributes, used for keyword pattern matching.
	ClassID string

	// Text is the element's trimmed text content.
	Text string
}

// ComputeMetrics gathers ContentMetrics for one element node. It is pure
// data collection: no scoring decisions happen here.
func ComputeMetrics(n *html.Node) ContentMetrics {
	text := strings.TrimSpace(nodeText(n))

	return ContentMetrics{
		TagName:        n.Data,
		TextLength:     len(text),
		TagLength:      len(renderNode(n)),
		LinkTextLength: linkTextLength(n),
		ClassID:        strings.ToLower(attrValue(n, "class") + " " + attrValue(n, "id")),
		Text:           text,
	}
}

// TextDensity is the ratio of visible text to serialized markup size.
// Zero markup yields 0.
func (m ContentMetrics) TextDensity() float64 {
	if m.TagLength == 0 {
		return 0
	}
	return float64(m.TextLength) / float64(m.TagLength)
}

// LinkDensity is the ratio of anchor text to total text. An element with
// no text at all counts as fully link content (density 1), so empty link
// wrappers are treated as navigation rather than prose.
func (m ContentMetrics) LinkDensity() float64 {
	if m.TextLength == 0 {
		return 1
	}
	return float64(m.LinkTextLength) / float64(m.TextLength)
}

// WordCount is the whitespace-separated word count of the text content.
func (m ContentMetrics) WordCount() int {
	return len(strings.Fields(m.Text))
}

// nodeText concatenates every text node under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// directText concatenates only the immediate text-node children of n,
// skipping text that lives inside child elements.
func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// linkTextLength sums the trimmed text lengths of descendant anchors.
func linkTextLength(n *html.Node) int {
	total := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			total += len(strings.TrimSpace(nodeText(node)))
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return total
}

// renderNode serializes the node back to HTML. Render only fails on
// writer errors, which a bytes.Buffer cannot produce.
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasChildElements reports whether n has at least one element child.
func hasChildElements(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}
