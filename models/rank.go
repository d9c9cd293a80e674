package models

// RankRequest is the payload for POST /api/v1/rank.
type RankRequest struct {
	// Query is the search query to rank documents against. Required.
	Query string `json:"query" binding:"required"`

	// Documents are the plain-text documents to score. Required.
	Documents []string `json:"documents" binding:"required,min=1,max=1000"`

	// Stemming toggles Porter stemming of query and documents.
	// Default: true.
	Stemming *bool `json:"stemming,omitempty"`

	// K1 overrides the BM25 term-frequency saturation parameter
	// (default 1.2).
	K1 float64 `json:"k1,omitempty" binding:"omitempty,gt=0"`

	// B overrides the BM25 length-normalization parameter (default 0.75).
	B float64 `json:"b,omitempty" binding:"omitempty,gte=0,lte=1"`
}

// RankResponse is the response for POST /api/v1/rank. Scores are in
// document order, one per input document.
type RankResponse struct {
	Success bool         `json:"success"`
	Scores  []float64    `json:"scores"`
	Error   *ErrorDetail `json:"error,omitempty"`
}
