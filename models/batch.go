package models

// BatchDocument is one document in a batch distill request.
type BatchDocument struct {
	// HTML is the raw document to distill. Required.
	HTML string `json:"html" binding:"required"`

	// URL is the document's source URL. Optional.
	URL string `json:"url,omitempty" binding:"omitempty,url"`
}

// BatchRequest is the payload for POST /api/v1/batch/distill.
type BatchRequest struct {
	// Documents is the list of documents to distill. Required.
	Documents []BatchDocument `json:"documents" binding:"required,min=1,max=100,dive"`

	// Options contains shared distill options applied to all documents.
	Options BatchOptions `json:"options"`

	// WebhookURL, when set, receives a signed notification once the
	// batch completes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret is the HMAC-SHA256 key for signing the webhook
	// payload. Ignored when WebhookURL is empty.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// BatchOptions are the shared settings applied to every document in a batch.
type BatchOptions struct {
	OutputFormat   string  `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html text markdown_citations"`
	FilterMode     string  `json:"filter_mode,omitempty" binding:"omitempty,oneof=raw readability pruning bm25 auto"`
	Query          string  `json:"query,omitempty"`
	PruneThreshold float64 `json:"prune_threshold,omitempty" binding:"omitempty,gt=0,lte=1"`
	ThresholdMode  string  `json:"threshold_mode,omitempty" binding:"omitempty,oneof=fixed dynamic"`
	MinWords       int     `json:"min_words,omitempty" binding:"omitempty,min=0"`
	BM25Threshold  float64 `json:"bm25_threshold,omitempty" binding:"omitempty,gt=0"`
	Stemming       *bool   `json:"stemming,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/distill.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Completed int                `json:"completed"`
	Total     int                `json:"total"`
	Results   []*DistillResponse `json:"results,omitempty"`
}

// BatchJob tracks an in-progress batch distill operation.
type BatchJob struct {
	ID        string
	Status    string // "processing", "completed", "failed", "partial"
	Total     int
	Completed int
	Results   []*DistillResponse
	CreatedAt int64 // unix timestamp
}
