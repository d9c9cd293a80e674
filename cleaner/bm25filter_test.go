package cleaner

import (
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestNewBM25Filter_Defaults(t *testing.T) {
	f := NewBM25Filter(BM25Options{})
	if f.threshold != defaultBM25Threshold {
		t.Errorf("threshold = %v, want %v", f.threshold, defaultBM25Threshold)
	}
	if !f.stemming {
		t.Error("stemming should default to enabled")
	}
}

func TestNewBM25Filter_NonEnglishDisablesStemming(t *testing.T) {
	if f := NewBM25Filter(BM25Options{Language: "de"}); f.stemming {
		t.Error("non-English language should disable stemming")
	}
	if f := NewBM25Filter(BM25Options{Language: "en"}); !f.stemming {
		t.Error("English language should keep stemming enabled")
	}
}

func TestNewBM25Filter_ExplicitStemmingOff(t *testing.T) {
	off := false
	if f := NewBM25Filter(BM25Options{Stemming: &off}); f.stemming {
		t.Error("explicit Stemming=false should disable stemming")
	}
}

func TestDeriveQuery_Precedence(t *testing.T) {
	longPara := strings.Repeat("Plenty of paragraph text here. ", 4)

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title wins",
			html: `<html><head><title>Page Title</title></head><body><h1>Heading</h1></body></html>`,
			want: "Page Title",
		},
		{
			name: "meta description",
			html: `<html><head><meta name="description" content="A concise summary"></head><body></body></html>`,
			want: "A concise summary",
		},
		{
			name: "meta keywords",
			html: `<html><head><meta name="keywords" content="golang, parsing"></head><body></body></html>`,
			want: "golang, parsing",
		},
		{
			name: "first h1",
			html: `<html><body><h1>Main Heading</h1></body></html>`,
			want: "Main Heading",
		},
		{
			name: "leading paragraph",
			html: `<html><body><p>` + longPara + `</p></body></html>`,
			want: strings.TrimSpace(longPara),
		},
		{
			name: "short paragraph yields nothing",
			html: `<html><body><p>Too short</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveQuery(parseDoc(t, tt.html)); got != tt.want {
				t.Errorf("deriveQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveQuery_TruncatesLongParagraph(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>`+strings.Repeat("abcde ", 50)+`</p></body></html>`)

	got := deriveQuery(doc)
	if n := len([]rune(got)); n != queryExcerptRunes {
		t.Errorf("excerpt length = %d runes, want %d", n, queryExcerptRunes)
	}
}

func TestExtractChunks_WordFloorAndOrder(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<h2>Section heading text</h2>
<p>Too short</p>
<p>This paragraph has enough words</p>
</body></html>`)

	chunks := extractChunks(doc, 3)

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2 (the two-word paragraph is below the floor)", len(chunks))
	}
	if chunks[0].Tag != "h2" || chunks[1].Tag != "p" {
		t.Errorf("tags = %q, %q, want h2, p", chunks[0].Tag, chunks[1].Tag)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has Index %d", i, c.Index)
		}
	}
}

func TestBM25Filter_KeepsRelevantChunks(t *testing.T) {
	page := `<html><body>
<p>Golang concurrency with goroutines makes golang services fast</p>
<p>Cooking pasta requires boiling water and fresh tomato sauce</p>
</body></html>`

	f := NewBM25Filter(BM25Options{Query: "golang concurrency"})
	got := strings.Join(f.FilterContent(page), "\n")

	if !strings.Contains(got, "goroutines") {
		t.Errorf("relevant chunk missing from:\n%s", got)
	}
	if strings.Contains(got, "pasta") {
		t.Errorf("irrelevant chunk survived:\n%s", got)
	}
}

func TestBM25Filter_DerivedQueryFromTitle(t *testing.T) {
	page := `<html><head><title>Kubernetes networking guide</title></head><body>
<p>Kubernetes networking routes traffic between kubernetes pods and services</p>
<p>Unrelated musings about gardening and houseplants today</p>
</body></html>`

	f := NewBM25Filter(BM25Options{})
	got := strings.Join(f.FilterContent(page), "\n")

	if !strings.Contains(got, "pods") {
		t.Errorf("chunk matching the page title missing from:\n%s", got)
	}
	if strings.Contains(got, "gardening") {
		t.Errorf("unrelated chunk survived:\n%s", got)
	}
}

func TestScoreChunks_TagPriorityBoost(t *testing.T) {
	page := `<html><body>
<h1>Distributed tracing systems</h1>
<p>Distributed tracing systems</p>
</body></html>`

	f := NewBM25Filter(BM25Options{Query: "distributed tracing"})
	chunks := f.ScoreChunks(page)

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}

	var h1Score, pScore float64
	for _, c := range chunks {
		switch c.Tag {
		case "h1":
			h1Score = c.Score
		case "p":
			pScore = c.Score
		}
	}

	// Identical text, so the boost is exactly the h1 priority ratio.
	if pScore == 0 || math.Abs(h1Score/pScore-5.0) > 1e-9 {
		t.Errorf("h1 score %v should be 5x p score %v", h1Score, pScore)
	}
}

func TestScoreChunks_DocumentOrder(t *testing.T) {
	page := `<html><body>
<p>Alpha section mentions testing frameworks and coverage</p>
<p>Beta section mentions testing pipelines and execution</p>
<p>Gamma section mentions testing reports and dashboards</p>
</body></html>`

	f := NewBM25Filter(BM25Options{Query: "testing"})
	chunks := f.ScoreChunks(page)

	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d out of order (Index %d)", i, c.Index)
		}
	}
	if !strings.Contains(chunks[0].Text, "Alpha") || !strings.Contains(chunks[2].Text, "Gamma") {
		t.Errorf("chunks reordered: %q ... %q", chunks[0].Text, chunks[2].Text)
	}
}

func TestScoreChunks_EmptyInput(t *testing.T) {
	f := NewBM25Filter(BM25Options{Query: "anything"})
	if got := f.ScoreChunks(""); got != nil {
		t.Errorf("empty input should yield nil, got %v", got)
	}
}

func TestScoreChunks_NoDerivableQuery(t *testing.T) {
	f := NewBM25Filter(BM25Options{})
	if got := f.ScoreChunks(`<html><body><p>Tiny</p></body></html>`); got != nil {
		t.Errorf("page with no derivable query should yield nil, got %v", got)
	}
}
