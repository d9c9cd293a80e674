package cleaner

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/use-agent/distill/models"
)

// Cleaner orchestrates the two-stage distillation pipeline:
//
//	Stage 1 (selection):  narrow raw HTML to main content via the chosen
//	                      filter mode (readability, pruning, bm25, auto)
//	Stage 2 (generation): convert the selection to the requested output
//	                      format through the markdown generator
//
// The converter is created once and reused across all requests (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
}

// NewCleaner initialises the Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
	}
}

// CleanOptions carries optional selection and filtering parameters for the
// pipeline. Zero values mean "use the filter's defaults".
type CleanOptions struct {
	// IncludeTags / ExcludeTags are CSS selectors applied before any
	// filter mode runs.
	IncludeTags []string
	ExcludeTags []string

	// CSSSelector narrows the document to matching elements first.
	CSSSelector string

	// Query drives bm25 mode. Empty means derive one from the page.
	Query string

	// PruneThreshold, ThresholdMode and MinWords configure pruning mode.
	PruneThreshold float64
	ThresholdMode  ThresholdMode
	MinWords       int

	// BM25Threshold and Stemming configure bm25 mode.
	BM25Threshold float64
	Stemming      *bool

	// Language tags the content language for the bm25 filter.
	Language string
}

// Clean runs the full pipeline and returns a partial DistillResponse
// (Content + Markdown + Metadata + Tokens filled; Timing is left to the
// API layer).
//
// Flow:
//  1. Reject blank input — the only error this pipeline returns.
//  2. Estimate original tokens from raw HTML.
//  3. Apply CSS selector and include/exclude tag filters (if provided).
//  4. Stage 1: select main content per filterMode.
//  5. Stage 2: markdown generation (raw + fit + references + citations).
//  6. Estimate cleaned tokens and compute savings.
//  7. Assemble and return the partial response.
func (c *Cleaner) Clean(rawHTML string, sourceURL string, format string, filterMode string, opts ...CleanOptions) (*models.DistillResponse, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, models.NewDistillError(
			models.ErrCodeInvalidInput,
			"html input is empty",
			nil,
		)
	}

	var o CleanOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	// ── 1. Original token estimate ──────────────────────────────────
	originalTokens := EstimateTokens(rawHTML)

	// ── 2. Scope narrowing (css selector, include/exclude tags) ─────
	workHTML := rawHTML
	if o.CSSSelector != "" {
		selected, err := ApplyCSSSelector(workHTML, o.CSSSelector)
		if err != nil {
			slog.Warn("css selector failed, using full document",
				"selector", o.CSSSelector, "error", err,
			)
		} else {
			workHTML = selected
		}
	}
	workHTML = FilterTags(workHTML, o.IncludeTags, o.ExcludeTags)

	// ── 3. Stage 1: Content selection ───────────────────────────────
	filter := c.modeFilter(filterMode, o)

	var article readability.Article
	switch filterMode {
	case "raw":
		// Skip extraction; use the (scope-narrowed) HTML as-is.
		article = fallbackArticle(workHTML)

	case "pruning", "bm25":
		// The filter runs inside the markdown generator; here the
		// article only carries the full selection plus metadata from
		// readability so title/author/etc. still come through.
		meta, _ := ExtractContent(workHTML, sourceURL)
		article = readability.Article{
			Title:       meta.Title,
			Byline:      meta.Byline,
			Excerpt:     meta.Excerpt,
			SiteName:    meta.SiteName,
			Language:    meta.Language,
			Content:     workHTML,
			TextContent: stripTags(workHTML),
		}

	case "auto":
		// Run readability and pruning concurrently, pick the result
		// with more extracted text content.
		article = autoExtract(workHTML, sourceURL, o)

	default:
		// "readability" (default).
		article, _ = ExtractContent(workHTML, sourceURL)
	}

	// ── 4. Stage 2: Markdown generation ─────────────────────────────
	gen := &MarkdownGenerator{
		conv:      c.mdConverter,
		filter:    filter,
		citations: format == "markdown_citations",
	}
	md := gen.Generate(article.Content, sourceURL)

	// The distilled markdown is the fit output when a filter produced
	// one, otherwise the full conversion. A filter that kept nothing
	// falls back to the full conversion so output is never empty.
	chosen := md.FitMarkdown
	if chosen == "" {
		chosen = md.RawMarkdown
	}

	var content string
	switch format {
	case "markdown", "":
		content = chosen
	case "markdown_citations":
		content = ConvertToCitations(chosen)
	case "html":
		if md.FitHTML != "" {
			content = md.FitHTML
		} else {
			content = article.Content
		}
	case "text":
		if md.FitHTML != "" {
			content = stripTags(md.FitHTML)
		} else {
			content = article.TextContent
		}
	default:
		// Defensive: treat unknown formats as markdown.
		content = chosen
	}

	// ── 5. Cleaned token estimate + savings ─────────────────────────
	cleanedTokens := EstimateTokens(content)

	savingsPercent := 0.0
	if originalTokens > 0 {
		savingsPercent = float64(originalTokens-cleanedTokens) / float64(originalTokens) * 100
		// Round to 2 decimal places.
		savingsPercent = math.Round(savingsPercent*100) / 100
	}

	// ── 6. Extract links, images, OG metadata ───────────────────────
	links := ExtractLinks(workHTML, sourceURL)
	images := ExtractImages(workHTML, sourceURL)
	ogMeta := ExtractOGMetadata(workHTML)

	title := article.Title
	if title == "" {
		title = md.Title
	}

	// ── 7. Assemble partial response ────────────────────────────────
	return &models.DistillResponse{
		Success: true,
		Content: content,
		Markdown: &models.MarkdownPayload{
			Raw:           md.RawMarkdown,
			WithCitations: md.MarkdownWithCitations,
			References:    md.ReferencesMarkdown,
			Fit:           md.FitMarkdown,
			FitHTML:       md.FitHTML,
		},
		Metadata: models.Metadata{
			Title:       title,
			Description: article.Excerpt,
			SiteName:    article.SiteName,
			Author:      article.Byline,
			Language:    article.Language,
			SourceURL:   sourceURL,
		},
		Links:      links,
		Images:     images,
		OGMetadata: ogMeta,
		Tokens: models.TokenInfo{
			OriginalEstimate: originalTokens,
			CleanedEstimate:  cleanedTokens,
			SavingsPercent:   savingsPercent,
		},
		// Timing and CacheStatus are left zero-valued. The API handler
		// layer fills them in.
	}, nil
}

// modeFilter builds the content filter for pruning and bm25 modes.
// Other modes narrow content in stage 1 and need no filter.
func (c *Cleaner) modeFilter(filterMode string, o CleanOptions) ContentFilter {
	switch filterMode {
	case "pruning":
		return NewPruningFilter(PruningOptions{
			Threshold:     o.PruneThreshold,
			ThresholdMode: o.ThresholdMode,
			MinWords:      o.MinWords,
		})
	case "bm25":
		return NewBM25Filter(BM25Options{
			Query:     o.Query,
			Threshold: o.BM25Threshold,
			Stemming:  o.Stemming,
			Language:  o.Language,
		})
	}
	return nil
}

// autoExtract runs both readability and the pruning filter concurrently,
// then picks the result that extracted more meaningful text content.
func autoExtract(rawHTML, sourceURL string, o CleanOptions) readability.Article {
	var (
		readabilityArticle readability.Article
		prunedHTML         string
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		readabilityArticle, _ = ExtractContent(rawHTML, sourceURL)
	}()

	go func() {
		defer wg.Done()
		f := NewPruningFilter(PruningOptions{
			Threshold:     o.PruneThreshold,
			ThresholdMode: o.ThresholdMode,
			MinWords:      o.MinWords,
		})
		prunedHTML = wrapFragments(f.FilterContent(rawHTML))
	}()

	wg.Wait()

	prunedText := stripTags(prunedHTML)
	readabilityText := strings.TrimSpace(readabilityArticle.TextContent)

	// Pick the result with more extracted text.
	useReadability := len(readabilityText) >= len(prunedText)

	// Quality check: if the longer result is >10x the shorter, it may
	// contain too much noise — prefer the shorter one if it still has
	// a reasonable amount of content.
	if useReadability && len(prunedText) > minContentLength {
		if len(readabilityText) > 10*len(prunedText) {
			useReadability = false
		}
	} else if !useReadability && len(readabilityText) > minContentLength {
		if len(prunedText) > 10*len(readabilityText) {
			useReadability = true
		}
	}

	if useReadability {
		return readabilityArticle
	}

	// Build Article from the pruned result, with metadata from readability.
	return readability.Article{
		Title:       readabilityArticle.Title,
		Byline:      readabilityArticle.Byline,
		Excerpt:     readabilityArticle.Excerpt,
		SiteName:    readabilityArticle.SiteName,
		Language:    readabilityArticle.Language,
		Content:     prunedHTML,
		TextContent: prunedText,
	}
}

// stripTags is a simple helper that extracts visible text from an HTML
// fragment by parsing it with goquery. Returns trimmed plain text.
func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
