package cleaner

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// maxReferences caps the References block at the links most likely to
// matter; pages with hundreds of anchors are navigation-heavy anyway.
const maxReferences = 50

// ContentFilter selects the content-bearing fragments of a page. Both
// PruningFilter and BM25Filter implement it.
type ContentFilter interface {
	FilterContent(rawHTML string, minWords ...int) []string
}

// MarkdownResult is the full output of one generation pass. Fields other
// than RawMarkdown are populated only when their inputs exist: fit fields
// need a content filter, citations need the citations option, references
// need qualifying anchors.
type MarkdownResult struct {
	RawMarkdown           string `json:"raw_markdown"`
	MarkdownWithCitations string `json:"markdown_with_citations,omitempty"`
	ReferencesMarkdown    string `json:"references_markdown,omitempty"`
	FitMarkdown           string `json:"fit_markdown,omitempty"`
	FitHTML               string `json:"fit_html,omitempty"`
	Title                 string `json:"title,omitempty"`
}

// MarkdownGenerator turns HTML into LLM-ready Markdown: a full
// conversion, an optional filtered ("fit") conversion, a references
// block and an optional citation-style rendering.
type MarkdownGenerator struct {
	conv      *converter.Converter
	filter    ContentFilter
	citations bool
}

// GeneratorOption configures a MarkdownGenerator.
type GeneratorOption func(*MarkdownGenerator)

// WithContentFilter attaches a content filter whose surviving fragments
// feed the fit markdown output.
func WithContentFilter(f ContentFilter) GeneratorOption {
	return func(g *MarkdownGenerator) { g.filter = f }
}

// WithCitations enables the citation-style rendering of the raw markdown.
func WithCitations(enabled bool) GeneratorOption {
	return func(g *MarkdownGenerator) { g.citations = enabled }
}

// NewMarkdownGenerator creates a generator with its own converter.
func NewMarkdownGenerator(opts ...GeneratorOption) *MarkdownGenerator {
	g := &MarkdownGenerator{conv: newMarkdownConverter()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate converts rawHTML and returns every configured rendering.
// It never returns an error: blank input yields the zero result and
// conversion failures degrade to empty fields with a warning log.
// Relative URLs resolve against baseURL when it parses.
func (g *MarkdownGenerator) Generate(rawHTML, baseURL string) *MarkdownResult {
	result := &MarkdownResult{}
	if strings.TrimSpace(rawHTML) == "" {
		return result
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("markdown generation: unparseable html", "error", err)
	} else {
		result.Title = extractTitle(doc)
		result.ReferencesMarkdown = buildReferences(doc, baseURL)
	}

	raw, err := ToMarkdown(g.conv, rawHTML, baseURL)
	if err != nil {
		slog.Warn("markdown conversion failed", "error", err)
	} else {
		result.RawMarkdown = normalizeWhitespace(raw)
	}

	if g.citations && result.RawMarkdown != "" {
		result.MarkdownWithCitations = ConvertToCitations(result.RawMarkdown)
	}

	if g.filter != nil {
		result.FitHTML, result.FitMarkdown = g.generateFit(rawHTML, baseURL)
	}

	return result
}

// generateFit runs the content filter and converts what survives.
func (g *MarkdownGenerator) generateFit(rawHTML, baseURL string) (fitHTML, fitMarkdown string) {
	fitHTML = wrapFragments(g.filter.FilterContent(rawHTML))
	if fitHTML == "" {
		return "", ""
	}

	md, err := ToMarkdown(g.conv, fitHTML, baseURL)
	if err != nil {
		slog.Warn("fit markdown conversion failed", "error", err)
		return fitHTML, ""
	}
	return fitHTML, normalizeWhitespace(md)
}

// wrapFragments joins filter output into one HTML string, wrapping each
// fragment in a div so the converter treats them as separate blocks.
func wrapFragments(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, frag := range fragments {
		b.WriteString("<div>")
		b.WriteString(frag)
		b.WriteString("</div>\n")
	}
	return b.String()
}

// extractTitle prefers the document title, falling back to the first h1.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// buildReferences renders up to maxReferences anchors as a numbered
// References block. Anchors need non-empty text and href; relative hrefs
// resolve against baseURL, keeping the original when resolution fails.
// Duplicate resolved URLs are listed once.
func buildReferences(doc *goquery.Document, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var lines []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if text == "" || href == "" {
			return true
		}

		resolved := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				resolved = base.ResolveReference(ref).String()
			}
		}

		if seen[resolved] {
			return true
		}
		seen[resolved] = true
		lines = append(lines, fmt.Sprintf("%d. [%s](%s)", len(lines)+1, text, resolved))
		return len(lines) < maxReferences
	})

	if len(lines) == 0 {
		return ""
	}
	return "## References\n\n" + strings.Join(lines, "\n")
}
