package models

// DistillResponse is the response for POST /api/v1/distill.
type DistillResponse struct {
	// Success indicates whether distillation completed without errors.
	Success bool `json:"success"`

	// Content is the distilled output in the requested format.
	Content string `json:"content"`

	// Markdown carries every markdown rendering the generator produced.
	Markdown *MarkdownPayload `json:"markdown,omitempty"`

	// Metadata contains extracted page metadata.
	Metadata Metadata `json:"metadata"`

	// Links contains internal and external links extracted from the page.
	Links LinksResult `json:"links"`

	// Images contains image src and alt text extracted from the page.
	Images []Image `json:"images"`

	// OGMetadata contains Open Graph meta tags from the page.
	OGMetadata OGMetadata `json:"og_metadata"`

	// Tokens provides token estimates before and after distillation.
	Tokens TokenInfo `json:"tokens"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// DuplicateOf is set in batch results when this document's content
	// near-duplicates an earlier document; it holds that document's
	// zero-based index.
	DuplicateOf *int `json:"duplicate_of,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// MarkdownPayload is the full set of markdown renderings for one page.
// Raw is always present; the others depend on the request: Fit and
// FitHTML need a pruning or bm25 filter mode, WithCitations needs the
// markdown_citations format, References needs qualifying anchors.
type MarkdownPayload struct {
	Raw           string `json:"raw"`
	WithCitations string `json:"with_citations,omitempty"`
	References    string `json:"references,omitempty"`
	Fit           string `json:"fit,omitempty"`
	FitHTML       string `json:"fit_html,omitempty"`
}

// LinksResult separates extracted links into internal and external groups.
type LinksResult struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// Link represents a hyperlink extracted from the page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// Image represents an image element extracted from the page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// OGMetadata contains Open Graph protocol meta tags.
type OGMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Metadata holds page-level information extracted during distillation.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// TokenInfo provides before/after token estimates to show distillation
// efficacy.
type TokenInfo struct {
	// OriginalEstimate is the estimated token count of the raw HTML.
	OriginalEstimate int `json:"original_estimate"`

	// CleanedEstimate is the estimated token count of the distilled output.
	CleanedEstimate int `json:"cleaned_estimate"`

	// SavingsPercent is the percentage of tokens removed (0-100).
	SavingsPercent float64 `json:"savings_percent"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CleaningMs is the time spent selecting content and converting it.
	CleaningMs int64 `json:"cleaning_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string     `json:"status"` // "healthy" or "degraded"
	Uptime  string     `json:"uptime"`
	Cache   CacheStats `json:"cache"`
	Version string     `json:"version"`
}

// CacheStats reports the state of the response cache.
type CacheStats struct {
	Entries    int `json:"entries"`
	MaxEntries int `json:"max_entries"`
}
