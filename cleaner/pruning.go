package cleaner

import (
	"math"
	"strings"

	"golang.org/x/net/html"
)

// ThresholdMode selects how the pruning threshold is applied.
type ThresholdMode string

const (
	// ThresholdFixed compares every element against the same threshold.
	ThresholdFixed ThresholdMode = "fixed"

	// ThresholdDynamic adjusts the threshold per element from its tag
	// importance, text density and link density.
	ThresholdDynamic ThresholdMode = "dynamic"
)

// Signal weights for the pruning scorer. The composite score divides by
// the explicit total so the table can be tuned without touching the math.
const (
	wTextDensity = 0.4
	wLinkDensity = 0.2
	wTagWeight   = 0.2
	wClassID     = 0.1
	wTextLength  = 0.1

	totalScoreWeight = wTextDensity + wLinkDensity + wTagWeight + wClassID + wTextLength
)

const (
	defaultPruneThreshold = 0.48

	// directTextMin is the direct-text length above which an element with
	// children also emits its own synthetic fragment during flattening.
	directTextMin = 20
)

// noiseTags are stripped outright before scoring: scripts, styling,
// structural chrome, form controls, media embeds and templates carry no
// extractable prose.
var noiseTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {},
	"nav": {}, "footer": {}, "header": {}, "aside": {},
	"form": {}, "input": {}, "button": {}, "select": {}, "option": {},
	"textarea": {}, "label": {}, "fieldset": {},
	"iframe": {}, "embed": {}, "object": {}, "video": {}, "audio": {},
	"canvas": {}, "svg": {},
	"meta": {}, "link": {}, "base": {},
}

// tagWeights bias the composite score toward content-bearing tags.
// Unlisted tags fall back to 0.5.
var tagWeights = map[string]float64{
	"article": 1.5,
	"h1":      1.2,
	"h2":      1.1,
	"p":       1.0,
	"section": 1.0,
	"h3":      1.0,
	"h4":      0.9,
	"h5":      0.8,
	"h6":      0.7,
	"div":     0.5,
	"li":      0.5,
	"ul":      0.5,
	"ol":      0.5,
	"span":    0.3,
}

// tagImportance feeds the dynamic threshold adjustment. Values above 1
// mark tags that deserve a lower removal bar. Unlisted tags are 1.0.
var tagImportance = map[string]float64{
	"article": 1.5,
	"main":    1.4,
	"h1":      1.4,
	"section": 1.3,
	"h2":      1.3,
	"p":       1.2,
	"h3":      1.2,
	"div":     0.7,
	"span":    0.6,
}

// positiveClassIDPatterns are substrings in class/id attributes that
// indicate main content areas.
var positiveClassIDPatterns = []string{
	"content", "article", "main", "post", "entry", "text", "body", "story",
}

// negativeClassIDPatterns are substrings in class/id attributes that
// indicate non-content areas (boilerplate).
var negativeClassIDPatterns = []string{
	"sidebar", "nav", "footer", "ad", "social", "widget", "banner",
	"menu", "comment", "header", "popup", "modal", "cookie", "share",
	"related", "promo",
}

// PruningOptions configures a PruningFilter. Zero values select the
// defaults noted on each field.
type PruningOptions struct {
	// Threshold is the minimum composite score an element needs to
	// survive. Default: 0.48.
	Threshold float64

	// ThresholdMode selects fixed or dynamic comparison. Default: fixed.
	ThresholdMode ThresholdMode

	// MinWords, when positive, forces removal of any element whose word
	// count falls below it regardless of its other signals.
	MinWords int
}

// PruningFilter removes boilerplate from an HTML tree by scoring each
// element on text density, link density, tag type, class/id signals and
// text length, then flattens the survivors into ordered HTML fragments.
type PruningFilter struct {
	threshold float64
	mode      ThresholdMode
	minWords  int
}

// NewPruningFilter creates a PruningFilter with the given options.
func NewPruningFilter(opts PruningOptions) *PruningFilter {
	f := &PruningFilter{
		threshold: opts.Threshold,
		mode:      opts.ThresholdMode,
		minWords:  opts.MinWords,
	}
	if f.threshold == 0 {
		f.threshold = defaultPruneThreshold
	}
	if f.mode == "" {
		f.mode = ThresholdFixed
	}
	return f
}

// FilterContent parses rawHTML, prunes low-scoring subtrees and returns
// the surviving content as HTML fragments in document order. An optional
// minWords argument overrides the configured word floor for this call.
// Malformed or empty input degrades to an empty result, never an error.
func (f *PruningFilter) FilterContent(rawHTML string, minWords ...int) []string {
	floor := f.minWords
	if len(minWords) > 0 {
		floor = minWords[0]
	}

	if strings.TrimSpace(rawHTML) == "" {
		return nil
	}

	body := parseBody(rawHTML)
	if body == nil {
		return nil
	}

	stripNoise(body)
	f.prune(body, floor)

	var fragments []string
	flatten(body, &fragments)
	return fragments
}

// parseBody parses rawHTML and returns its body element. The parser
// synthesizes html/head/body wrappers for bare fragments, so every input
// ends up rooted in a body.
func parseBody(rawHTML string) *html.Node {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	return findElement(doc, "body")
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// stripNoise removes comment nodes and deny-listed elements, including
// their whole subtrees.
func stripNoise(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && isNoiseTag(c.Data):
			n.RemoveChild(c)
		default:
			stripNoise(c)
		}
	}
}

func isNoiseTag(tag string) bool {
	_, noisy := noiseTags[tag]
	return noisy
}

// prune walks element children depth-first, removing each subtree whose
// composite score falls below its threshold. Removed subtrees are not
// descended into. The root passed in is never scored itself.
func (f *PruningFilter) prune(n *html.Node, minWords int) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type != html.ElementNode {
			continue
		}

		m := ComputeMetrics(c)
		if f.compositeScore(m, minWords) < f.nodeThreshold(m) {
			n.RemoveChild(c)
			continue
		}
		f.prune(c, minWords)
	}
}

// compositeScore combines the weighted signals into one score. A word
// count below the floor short-circuits to -1.0, guaranteeing removal.
func (f *PruningFilter) compositeScore(m ContentMetrics, minWords int) float64 {
	if minWords > 0 && m.WordCount() < minWords {
		return -1.0
	}

	classScore := classIDScore(m.ClassID)
	if classScore < 0 {
		classScore = 0
	}

	score := m.TextDensity()*wTextDensity +
		(1-m.LinkDensity())*wLinkDensity +
		tagWeight(m.TagName)*wTagWeight +
		classScore*wClassID +
		math.Log(float64(m.TextLength)+1)*wTextLength

	return score / totalScoreWeight
}

func (f *PruningFilter) nodeThreshold(m ContentMetrics) float64 {
	if f.mode != ThresholdDynamic {
		return f.threshold
	}
	return adjustedThreshold(f.threshold, m, tagImportanceOf(m.TagName))
}

// adjustedThreshold derives a per-element threshold for dynamic mode:
// important tags and dense text lower the bar, link-heavy elements raise
// it. Kept as a pure function so the adjustment is testable in isolation.
func adjustedThreshold(base float64, m ContentMetrics, importance float64) float64 {
	t := base
	if importance > 1 {
		t *= 0.8
	}
	if m.TextDensity() > 0.4 {
		t *= 0.9
	}
	if m.LinkDensity() > 0.6 {
		t *= 1.2
	}
	return t
}

// tagWeight returns the composite-score weight for a tag name.
func tagWeight(tag string) float64 {
	if w, ok := tagWeights[tag]; ok {
		return w
	}
	return 0.5
}

func tagImportanceOf(tag string) float64 {
	if w, ok := tagImportance[tag]; ok {
		return w
	}
	return 1.0
}

// classIDScore counts content keywords (+1 each) against boilerplate
// keywords (-1 each) in the combined class/id string.
func classIDScore(classID string) float64 {
	score := 0.0
	for _, pat := range positiveClassIDPatterns {
		if strings.Contains(classID, pat) {
			score++
		}
	}
	for _, pat := range negativeClassIDPatterns {
		if strings.Contains(classID, pat) {
			score--
		}
	}
	return score
}

// flatten walks the pruned tree and collects fragments in document order.
// A childless element with text emits its outer HTML. An element with
// children first emits a synthetic fragment of its direct text when that
// text is long enough, then recurses; both can fire for one element, so
// mixed text and child content survives at the cost of some duplication.
func flatten(n *html.Node, fragments *[]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		if !hasChildElements(c) {
			if strings.TrimSpace(nodeText(c)) != "" {
				*fragments = append(*fragments, renderNode(c))
			}
			continue
		}

		if direct := strings.TrimSpace(directText(c)); len([]rune(direct)) > directTextMin {
			*fragments = append(*fragments,
				"<"+c.Data+">"+html.EscapeString(direct)+"</"+c.Data+">")
		}
		flatten(c, fragments)
	}
}
