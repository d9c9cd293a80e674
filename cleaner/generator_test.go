package cleaner

import (
	"fmt"
	"strings"
	"testing"
)

// staticFilter returns fixed fragments regardless of input.
type staticFilter struct {
	fragments []string
}

func (s staticFilter) FilterContent(string, ...int) []string { return s.fragments }

func TestGenerate_EmptyInput(t *testing.T) {
	g := NewMarkdownGenerator()

	got := g.Generate("", "")
	if got.RawMarkdown != "" || got.Title != "" || got.ReferencesMarkdown != "" {
		t.Errorf("empty input should produce a zero result, got %+v", got)
	}
}

func TestGenerate_BasicConversion(t *testing.T) {
	g := NewMarkdownGenerator()

	got := g.Generate(`<html><head><title>Doc Title</title></head><body><h1>Heading</h1><p>Some paragraph.</p></body></html>`, "")

	if got.Title != "Doc Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Doc Title")
	}
	if !strings.Contains(got.RawMarkdown, "# Heading") {
		t.Errorf("RawMarkdown missing heading: %q", got.RawMarkdown)
	}
	if got.FitMarkdown != "" || got.FitHTML != "" {
		t.Errorf("fit fields should be empty without a filter: %+v", got)
	}
}

func TestGenerate_TitleFallsBackToH1(t *testing.T) {
	g := NewMarkdownGenerator()

	got := g.Generate(`<html><body><h1>Only Heading</h1><p>Text.</p></body></html>`, "")
	if got.Title != "Only Heading" {
		t.Errorf("Title = %q, want %q", got.Title, "Only Heading")
	}
}

func TestGenerate_References(t *testing.T) {
	page := `<html><body>
<p><a href="/guide">Guide</a> and <a href="https://other.org/page">Other</a>
and <a href="/guide">Guide repeated</a> and <a href="/empty"></a></p>
</body></html>`

	g := NewMarkdownGenerator()
	got := g.Generate(page, "https://example.com")

	refs := got.ReferencesMarkdown
	if !strings.HasPrefix(refs, "## References") {
		t.Fatalf("references block missing: %q", refs)
	}
	if !strings.Contains(refs, "1. [Guide](https://example.com/guide)") {
		t.Errorf("relative link not resolved: %q", refs)
	}
	if !strings.Contains(refs, "2. [Other](https://other.org/page)") {
		t.Errorf("absolute link missing: %q", refs)
	}
	if strings.Contains(refs, "Guide repeated") {
		t.Errorf("duplicate URL should be listed once: %q", refs)
	}
}

func TestGenerate_ReferencesCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, `<a href="https://example.com/p%d">Link %d</a> `, i, i)
	}
	b.WriteString("</body></html>")

	g := NewMarkdownGenerator()
	got := g.Generate(b.String(), "")

	refs := got.ReferencesMarkdown
	if !strings.Contains(refs, fmt.Sprintf("%d. [Link %d]", maxReferences, maxReferences-1)) {
		t.Errorf("expected %d entries:\n%s", maxReferences, refs)
	}
	if strings.Contains(refs, fmt.Sprintf("%d.", maxReferences+1)) {
		t.Errorf("references should cap at %d entries:\n%s", maxReferences, refs)
	}
}

func TestGenerate_FitWithFilter(t *testing.T) {
	g := NewMarkdownGenerator(WithContentFilter(staticFilter{
		fragments: []string{"<p>Kept paragraph</p>", "<h2>Kept heading</h2>"},
	}))

	got := g.Generate("<html><body><p>Kept paragraph</p><p>Dropped</p></body></html>", "")

	if !strings.Contains(got.FitHTML, "<p>Kept paragraph</p>") {
		t.Errorf("FitHTML = %q", got.FitHTML)
	}
	if !strings.Contains(got.FitMarkdown, "Kept paragraph") {
		t.Errorf("FitMarkdown missing kept text: %q", got.FitMarkdown)
	}
	if !strings.Contains(got.FitMarkdown, "## Kept heading") {
		t.Errorf("FitMarkdown missing kept heading: %q", got.FitMarkdown)
	}
	if strings.Contains(got.FitMarkdown, "Dropped") {
		t.Errorf("fit output should only contain filter survivors: %q", got.FitMarkdown)
	}
	if !strings.Contains(got.RawMarkdown, "Dropped") {
		t.Errorf("raw output should keep everything: %q", got.RawMarkdown)
	}
}

func TestGenerate_FitEmptyWhenFilterKeepsNothing(t *testing.T) {
	g := NewMarkdownGenerator(WithContentFilter(staticFilter{}))

	got := g.Generate("<p>Everything scored too low</p>", "")

	if got.FitHTML != "" || got.FitMarkdown != "" {
		t.Errorf("fit fields should be empty when the filter keeps nothing: %+v", got)
	}
	if got.RawMarkdown == "" {
		t.Error("raw markdown should still be produced")
	}
}

func TestGenerate_Citations(t *testing.T) {
	g := NewMarkdownGenerator(WithCitations(true))

	got := g.Generate(`<p>Read <a href="https://example.com/a">the guide</a> first.</p>`, "")

	if !strings.Contains(got.MarkdownWithCitations, "[the guide][1]") {
		t.Errorf("MarkdownWithCitations = %q", got.MarkdownWithCitations)
	}
	if !strings.Contains(got.MarkdownWithCitations, "[1]: https://example.com/a") {
		t.Errorf("MarkdownWithCitations missing reference list: %q", got.MarkdownWithCitations)
	}
}

func TestWrapFragments(t *testing.T) {
	if got := wrapFragments(nil); got != "" {
		t.Errorf("no fragments should yield empty string, got %q", got)
	}

	got := wrapFragments([]string{"<p>a</p>", "<p>b</p>"})
	want := "<div><p>a</p></div>\n<div><p>b</p></div>\n"
	if got != want {
		t.Errorf("wrapFragments = %q, want %q", got, want)
	}
}
