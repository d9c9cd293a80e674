package cleaner

import (
	"math"
	"strings"
	"testing"
)

func TestNewPruningFilter_Defaults(t *testing.T) {
	f := NewPruningFilter(PruningOptions{})
	if f.threshold != defaultPruneThreshold {
		t.Errorf("threshold = %v, want %v", f.threshold, defaultPruneThreshold)
	}
	if f.mode != ThresholdFixed {
		t.Errorf("mode = %q, want %q", f.mode, ThresholdFixed)
	}
}

func TestFilterContent_EmptyInput(t *testing.T) {
	f := NewPruningFilter(PruningOptions{})
	if got := f.FilterContent(""); got != nil {
		t.Errorf("empty input should yield nil, got %v", got)
	}
	if got := f.FilterContent("  \n\t "); got != nil {
		t.Errorf("whitespace input should yield nil, got %v", got)
	}
}

func TestFilterContent_KeepsContentDropsSidebar(t *testing.T) {
	page := `<html><body>
<div class="content"><p>` + strings.Repeat("Relevant article prose. ", 15) + `</p></div>
<div class="sidebar"><a href="/a">Home</a> <a href="/b">About</a></div>
</body></html>`

	f := NewPruningFilter(PruningOptions{})
	got := strings.Join(f.FilterContent(page), "\n")

	if !strings.Contains(got, "Relevant article prose.") {
		t.Errorf("content paragraph was pruned:\n%s", got)
	}
	if strings.Contains(got, "About") {
		t.Errorf("sidebar survived pruning:\n%s", got)
	}
}

func TestFilterContent_StripsNoiseTags(t *testing.T) {
	page := `<html><body>
<nav><a href="/">Site navigation</a></nav>
<script>var tracking = true;</script>
<p>` + strings.Repeat("Readable body text. ", 10) + `</p>
<footer>Copyright notice</footer>
</body></html>`

	f := NewPruningFilter(PruningOptions{})
	got := strings.Join(f.FilterContent(page), "\n")

	for _, noise := range []string{"Site navigation", "tracking", "Copyright"} {
		if strings.Contains(got, noise) {
			t.Errorf("noise %q survived:\n%s", noise, got)
		}
	}
	if !strings.Contains(got, "Readable body text.") {
		t.Errorf("body text missing:\n%s", got)
	}
}

func TestFilterContent_MinWordsFloor(t *testing.T) {
	page := `<div><p>One two three</p></div>`
	f := NewPruningFilter(PruningOptions{})

	if got := f.FilterContent(page, 2); len(got) == 0 {
		t.Fatal("three-word paragraph should survive a floor of 2")
	}
	if got := f.FilterContent(page, 5); len(got) != 0 {
		t.Errorf("three-word paragraph should be removed by a floor of 5, got %v", got)
	}
}

func TestFilterContent_ConfiguredMinWords(t *testing.T) {
	f := NewPruningFilter(PruningOptions{MinWords: 5})
	if got := f.FilterContent(`<div><p>One two three</p></div>`); len(got) != 0 {
		t.Errorf("configured word floor should apply without a per-call override, got %v", got)
	}
}

func TestFilterContent_DocumentOrder(t *testing.T) {
	page := `<body><p>` + strings.Repeat("First paragraph words. ", 10) +
		`</p><p>` + strings.Repeat("Second paragraph words. ", 10) + `</p></body>`

	f := NewPruningFilter(PruningOptions{})
	got := f.FilterContent(page)

	if len(got) != 2 {
		t.Fatalf("got %d fragments, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "First") || !strings.Contains(got[1], "Second") {
		t.Errorf("fragments out of order: %v", got)
	}
}

func TestCompositeScore_MinWordsShortCircuit(t *testing.T) {
	f := NewPruningFilter(PruningOptions{})
	m := ContentMetrics{TagName: "p", Text: "only four words here", TextLength: 20, TagLength: 27}

	if got := f.compositeScore(m, 10); got != -1.0 {
		t.Errorf("score = %v, want -1.0", got)
	}
}

func TestCompositeScore_NegativeClassClamped(t *testing.T) {
	f := NewPruningFilter(PruningOptions{})
	neutral := ContentMetrics{TagName: "div", TextLength: 100, TagLength: 200}
	negative := neutral
	negative.ClassID = "sidebar banner"

	sn := f.compositeScore(neutral, 0)
	sneg := f.compositeScore(negative, 0)
	if sn != sneg {
		t.Errorf("negative class/id should clamp to the neutral score: %v vs %v", sneg, sn)
	}
}

func TestCompositeScore_PositiveClassRaises(t *testing.T) {
	f := NewPruningFilter(PruningOptions{})
	neutral := ContentMetrics{TagName: "div", TextLength: 100, TagLength: 200}
	positive := neutral
	positive.ClassID = "article content"

	sp := f.compositeScore(positive, 0)
	sn := f.compositeScore(neutral, 0)
	if sp <= sn {
		t.Errorf("positive class/id should raise the score: %v vs %v", sp, sn)
	}
}

func TestAdjustedThreshold(t *testing.T) {
	base := 0.5
	tests := []struct {
		name       string
		m          ContentMetrics
		importance float64
		want       float64
	}{
		{
			name:       "no adjustment",
			m:          ContentMetrics{TextLength: 10, TagLength: 100},
			importance: 1.0,
			want:       0.5,
		},
		{
			name:       "important tag lowers",
			m:          ContentMetrics{TextLength: 10, TagLength: 100},
			importance: 1.5,
			want:       0.4,
		},
		{
			name:       "dense text lowers",
			m:          ContentMetrics{TextLength: 50, TagLength: 100},
			importance: 1.0,
			want:       0.45,
		},
		{
			name:       "link heavy raises",
			m:          ContentMetrics{TextLength: 100, TagLength: 1000, LinkTextLength: 70},
			importance: 1.0,
			want:       0.6,
		},
		{
			name:       "all three compound",
			m:          ContentMetrics{TextLength: 50, TagLength: 100, LinkTextLength: 35},
			importance: 1.5,
			want:       0.5 * 0.8 * 0.9 * 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustedThreshold(base, tt.m, tt.importance)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("adjustedThreshold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeThreshold_FixedIgnoresMetrics(t *testing.T) {
	f := NewPruningFilter(PruningOptions{Threshold: 0.6})
	m := ContentMetrics{TagName: "article", TextLength: 500, TagLength: 600}

	if got := f.nodeThreshold(m); got != 0.6 {
		t.Errorf("fixed mode threshold = %v, want 0.6", got)
	}
}

func TestNodeThreshold_DynamicUsesTagImportance(t *testing.T) {
	f := NewPruningFilter(PruningOptions{Threshold: 0.6, ThresholdMode: ThresholdDynamic})
	m := ContentMetrics{TagName: "article", TextLength: 10, TagLength: 100}

	// article importance is above 1, which lowers the bar to 0.6 * 0.8.
	if got := f.nodeThreshold(m); math.Abs(got-0.48) > 1e-9 {
		t.Errorf("dynamic threshold = %v, want 0.48", got)
	}
}

func TestClassIDScore(t *testing.T) {
	tests := []struct {
		name    string
		classID string
		want    float64
	}{
		{"empty", "", 0},
		{"positive keywords", "main-content", 2},
		{"negative keywords", "promo-banner", -2},
		{"mixed cancels out", "content sidebar", 0},
		{"unrelated", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classIDScore(tt.classID); got != tt.want {
				t.Errorf("classIDScore(%q) = %v, want %v", tt.classID, got, tt.want)
			}
		})
	}
}

func TestFlatten_MixedTextAndChildren(t *testing.T) {
	body := parseBody(`<div>This direct text is long enough to keep.<p>Nested child paragraph</p></div>`)
	if body == nil {
		t.Fatal("parseBody returned nil")
	}

	var fragments []string
	flatten(body, &fragments)

	if len(fragments) != 2 {
		t.Fatalf("fragments = %v, want synthetic text plus child", fragments)
	}
	if fragments[0] != "<div>This direct text is long enough to keep.</div>" {
		t.Errorf("synthetic fragment = %q", fragments[0])
	}
	if fragments[1] != "<p>Nested child paragraph</p>" {
		t.Errorf("child fragment = %q", fragments[1])
	}
}

func TestFlatten_ShortDirectTextSkipped(t *testing.T) {
	body := parseBody(`<div>tiny<p>Nested child paragraph</p></div>`)
	if body == nil {
		t.Fatal("parseBody returned nil")
	}

	var fragments []string
	flatten(body, &fragments)

	if len(fragments) != 1 || fragments[0] != "<p>Nested child paragraph</p>" {
		t.Errorf("fragments = %v, want only the child paragraph", fragments)
	}
}
