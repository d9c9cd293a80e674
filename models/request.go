package models

// DistillRequest is the payload for POST /api/v1/distill.
type DistillRequest struct {
	// HTML is the raw document to distill. Required.
	HTML string `json:"html" binding:"required"`

	// URL is the page's source URL. Used to resolve relative links and
	// to split extracted links into internal and external.
	URL string `json:"url,omitempty" binding:"omitempty,url"`

	// OutputFormat controls the response Content format.
	// Allowed: "markdown" (default), "html", "text", "markdown_citations".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html text markdown_citations"`

	// FilterMode controls the content selection strategy.
	// "readability" (default): Mozilla Readability main-content extraction.
	// "raw": no selection, full document passes through.
	// "pruning": composite-score boilerplate removal.
	// "bm25": query-relevance chunk filtering.
	// "auto": readability and pruning race, larger result wins.
	FilterMode string `json:"filter_mode,omitempty" binding:"omitempty,oneof=raw readability pruning bm25 auto"`

	// Query drives bm25 filtering. Empty derives a query from the page
	// title, meta tags or leading content.
	Query string `json:"query,omitempty"`

	// PruneThreshold overrides the pruning score threshold (default 0.48).
	PruneThreshold float64 `json:"prune_threshold,omitempty" binding:"omitempty,gt=0,lte=1"`

	// ThresholdMode selects fixed or dynamic pruning thresholds.
	ThresholdMode string `json:"threshold_mode,omitempty" binding:"omitempty,oneof=fixed dynamic"`

	// MinWords forces removal of elements below this word count during
	// pruning, and sets the chunk floor for bm25.
	MinWords int `json:"min_words,omitempty" binding:"omitempty,min=0"`

	// BM25Threshold overrides the bm25 score threshold (default 1.0).
	BM25Threshold float64 `json:"bm25_threshold,omitempty" binding:"omitempty,gt=0"`

	// Stemming toggles Porter stemming in bm25 mode. Default: true.
	Stemming *bool `json:"stemming,omitempty"`

	// Language tags the content language for bm25 filtering. Only
	// English stemming is implemented.
	Language string `json:"language,omitempty"`

	// CSSSelector is an optional CSS selector applied before any
	// filtering. When set, only the matched elements' outer HTML is
	// passed to the pipeline.
	CSSSelector string `json:"css_selector,omitempty"`

	// IncludeTags keeps only elements matching these CSS selectors.
	IncludeTags []string `json:"include_tags,omitempty"`

	// ExcludeTags removes elements matching these CSS selectors.
	ExcludeTags []string `json:"exclude_tags,omitempty"`

	// MaxAge is the cache freshness bound in seconds. 0 disables
	// caching for this request.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *DistillRequest) Defaults() {
	if r.OutputFormat == "" {
		r.OutputFormat = "markdown"
	}
	if r.FilterMode == "" {
		r.FilterMode = "readability"
	}
	if r.ThresholdMode == "" {
		r.ThresholdMode = "fixed"
	}
}
