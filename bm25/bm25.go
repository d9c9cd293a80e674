// Package bm25 provides Okapi BM25 relevance ranking over pre-tokenized
// documents, plus the tokenizer and stop-word filter used to prepare them.
//
// A Ranker is built fresh from each candidate corpus. Nothing is cached
// across corpora: average length and IDF only mean anything relative to
// the documents being ranked right now.
package bm25

import (
	"math"
	"strings"
)

// Default BM25 parameters. k1 controls term-frequency saturation, b
// controls how strongly scores are normalized by document length.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Ranker scores documents against a query using BM25. All state is
// computed at construction and read-only afterwards, so a Ranker is safe
// for concurrent GetScores calls.
type Ranker struct {
	k1      float64
	b       float64
	docs    []map[string]int
	docLens []float64
	avgLen  float64
	idf     map[string]float64
}

// Option tunes Ranker parameters.
type Option func(*Ranker)

// WithK1 overrides the term-frequency saturation parameter.
func WithK1(k1 float64) Option {
	return func(r *Ranker) { r.k1 = k1 }
}

// WithB overrides the length-normalization strength.
func WithB(b float64) Option {
	return func(r *Ranker) { r.b = b }
}

// NewRanker builds a Ranker over the given corpus of tokenized documents.
// Term matching is case-insensitive. An empty corpus is valid and yields
// empty score slices.
func NewRanker(corpus [][]string, opts ...Option) *Ranker {
	r := &Ranker{
		k1:  DefaultK1,
		b:   DefaultB,
		idf: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.docs = make([]map[string]int, len(corpus))
	r.docLens = make([]float64, len(corpus))

	df := make(map[string]int)
	var totalLen float64

	for i, doc := range corpus {
		tf := make(map[string]int, len(doc))
		for _, term := range doc {
			tf[strings.ToLower(term)]++
		}
		for term := range tf {
			df[term]++
		}
		r.docs[i] = tf
		r.docLens[i] = float64(len(doc))
		totalLen += float64(len(doc))
	}

	// Average length defaults to 1.0 for an empty corpus to keep the
	// score denominator well-defined.
	r.avgLen = 1.0
	if len(corpus) > 0 {
		r.avgLen = totalLen / float64(len(corpus))
	}

	n := float64(len(corpus))
	for term, freq := range df {
		f := float64(freq)
		r.idf[term] = math.Log((n-f+0.5)/(f+0.5) + 1)
	}

	return r
}

// GetScores returns one BM25 score per corpus document for the given
// query tokens. Duplicate query terms count once; terms unseen in the
// corpus contribute nothing. A document sharing no terms with the query
// scores exactly 0.
func (r *Ranker) GetScores(query []string) []float64 {
	scores := make([]float64, len(r.docs))
	if len(query) == 0 {
		return scores
	}

	seen := make(map[string]struct{}, len(query))
	terms := make([]string, 0, len(query))
	for _, q := range query {
		term := strings.ToLower(q)
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for i, tf := range r.docs {
		var score float64
		for _, term := range terms {
			freq, ok := tf[term]
			if !ok {
				continue
			}
			f := float64(freq)
			norm := 1 - r.b + r.b*(r.docLens[i]/r.avgLen)
			score += r.idf[term] * (f * (r.k1 + 1)) / (f + r.k1*norm)
		}
		scores[i] = score
	}

	return scores
}
