package cleaner

import (
	"strings"
	"testing"
)

func TestToMarkdown_Basic(t *testing.T) {
	conv := newMarkdownConverter()

	got, err := ToMarkdown(conv, "<h1>Title</h1><p>Body text.</p>", "")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("heading not converted: %q", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("paragraph missing: %q", got)
	}
}

func TestToMarkdown_ResolvesRelativeURLs(t *testing.T) {
	conv := newMarkdownConverter()

	got, err := ToMarkdown(conv, `<a href="/docs">Docs</a>`, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if !strings.Contains(got, "https://example.com/docs") {
		t.Errorf("relative URL not resolved: %q", got)
	}
}

func TestToMarkdown_StripsScripts(t *testing.T) {
	conv := newMarkdownConverter()

	got, err := ToMarkdown(conv, "<p>Visible</p><script>var hidden = 1;</script>", "")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("script content leaked into markdown: %q", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing spaces", "line one   \nline two\t\n", "line one\nline two"},
		{"blank run capped", "a\n\n\n\n\n\nb", "a\n\n\nb"},
		{"surrounding whitespace trimmed", "\n\n  text  \n\n", "text"},
		{"already clean", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeWhitespace(tt.in); got != tt.want {
				t.Errorf("normalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertToCitations(t *testing.T) {
	in := "See [Google](https://google.com) and [GitHub](https://github.com) or [Google again](https://google.com)"
	got := ConvertToCitations(in)

	for _, want := range []string{
		"[Google][1]",
		"[GitHub][2]",
		"[Google again][1]",
		"[1]: https://google.com",
		"[2]: https://github.com",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestConvertToCitations_NoLinks(t *testing.T) {
	in := "Plain text without links"
	if got := ConvertToCitations(in); got != in {
		t.Errorf("text without links should pass through unchanged, got %q", got)
	}
}
