package cleaner

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/distill/bm25"
	"github.com/use-agent/distill/stemmer"
)

const (
	defaultBM25Threshold = 1.0
	defaultMinChunkWords = 3

	// chunkSelector lists the tags treated as rankable text chunks.
	chunkSelector = "p,h1,h2,h3,h4,h5,h6,li,td,th,blockquote,pre,code,article,section,div"

	// queryExcerptRunes caps how much of a leading paragraph is used as a
	// derived query; queryMinRunes is the floor below which a paragraph is
	// too thin to describe the page.
	queryExcerptRunes = 200
	queryMinRunes     = 50
)

// tagPriorities boost chunk scores for tags whose text tends to describe
// the page. Unlisted tags get 1.0.
var tagPriorities = map[string]float64{
	"h1":         5.0,
	"h2":         4.0,
	"title":      4.0,
	"h3":         3.0,
	"blockquote": 2.0,
	"code":       2.0,
	"strong":     2.0,
	"em":         1.5,
	"b":          1.5,
	"pre":        1.5,
	"th":         1.5,
}

// BM25Options configures a BM25Filter. Zero values select the defaults
// noted on each field.
type BM25Options struct {
	// Query is the relevance query. When empty, the filter derives one
	// from the page itself (title, meta tags, first heading or leading
	// paragraph).
	Query string

	// Threshold is the minimum tag-adjusted BM25 score a chunk needs to
	// survive. Default: 1.0.
	Threshold float64

	// Stemming toggles Porter stemming of chunk and query tokens.
	// Default: enabled.
	Stemming *bool

	// Language tags the content language. Only English stemming is
	// implemented; other values disable stemming.
	Language string
}

// TextChunk is one rankable unit of page text.
type TextChunk struct {
	// Index is the chunk's position in document order.
	Index int

	// Text is the chunk's trimmed visible text.
	Text string

	// Tag is the chunk's element name.
	Tag string

	// HTML is the chunk's outer markup.
	HTML string

	// Score is the tag-adjusted BM25 score against the query.
	Score float64
}

// BM25Filter keeps the chunks of a page most relevant to a query, ranked
// with BM25 over tokenized, stemmed and stopword-filtered text.
type BM25Filter struct {
	query     string
	threshold float64
	stemming  bool
}

// NewBM25Filter creates a BM25Filter with the given options.
func NewBM25Filter(opts BM25Options) *BM25Filter {
	f := &BM25Filter{
		query:     opts.Query,
		threshold: opts.Threshold,
		stemming:  true,
	}
	if f.threshold == 0 {
		f.threshold = defaultBM25Threshold
	}
	if opts.Stemming != nil {
		f.stemming = *opts.Stemming
	}
	if opts.Language != "" && opts.Language != "en" && opts.Language != "english" {
		f.stemming = false
	}
	return f
}

// FilterContent parses rawHTML, scores its text chunks against the query
// and returns the HTML of surviving chunks in document order. An optional
// minWords argument overrides the word floor (default 3) below which a
// chunk is not ranked at all. Malformed input, an empty page or no
// derivable query all degrade to an empty result, never an error.
func (f *BM25Filter) FilterContent(rawHTML string, minWords ...int) []string {
	chunks := f.ScoreChunks(rawHTML, minWords...)

	var fragments []string
	for _, c := range chunks {
		if c.Score >= f.threshold {
			fragments = append(fragments, c.HTML)
		}
	}
	return fragments
}

// ScoreChunks runs the full ranking pass and returns every chunk with its
// score attached, in document order. FilterContent is a thresholded view
// of this.
func (f *BM25Filter) ScoreChunks(rawHTML string, minWords ...int) []TextChunk {
	floor := defaultMinChunkWords
	if len(minWords) > 0 {
		floor = minWords[0]
	}

	if strings.TrimSpace(rawHTML) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	query := f.query
	if strings.TrimSpace(query) == "" {
		query = deriveQuery(doc)
	}
	if strings.TrimSpace(query) == "" {
		return nil
	}

	chunks := extractChunks(doc, floor)
	if len(chunks) == 0 {
		return nil
	}

	queryTokens := f.prepareTokens(query)
	if len(queryTokens) == 0 {
		return nil
	}

	corpus := make([][]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = f.prepareTokens(c.Text)
	}

	ranker := bm25.NewRanker(corpus)
	scores := ranker.GetScores(queryTokens)
	for i := range chunks {
		chunks[i].Score = scores[i] * tagPriority(chunks[i].Tag)
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks
}

// deriveQuery builds a query from the page itself, preferring explicit
// descriptions over body text: title, meta description, meta keywords,
// the first h1, then the leading excerpt of a substantial first
// paragraph.
func deriveQuery(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if d := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	if k := strings.TrimSpace(doc.Find(`meta[name="keywords"]`).AttrOr("content", "")); k != "" {
		return k
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	p := strings.TrimSpace(doc.Find("p").First().Text())
	if runes := []rune(p); len(runes) > queryMinRunes {
		if len(runes) > queryExcerptRunes {
			runes = runes[:queryExcerptRunes]
		}
		return string(runes)
	}
	return ""
}

// extractChunks collects allow-listed elements in document order,
// skipping any whose text falls below the word floor. Index reflects the
// position among kept chunks.
func extractChunks(doc *goquery.Document, minWords int) []TextChunk {
	var chunks []TextChunk
	doc.Find(chunkSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(strings.Fields(text)) < minWords {
			return
		}
		outer, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		chunks = append(chunks, TextChunk{
			Index: len(chunks),
			Text:  text,
			Tag:   goquery.NodeName(sel),
			HTML:  strings.TrimSpace(outer),
		})
	})
	return chunks
}

// prepareTokens normalizes text for ranking: tokenize, stem when enabled,
// then drop stopwords and short tokens. Stemming runs before the
// stopword pass so both corpus and query shrink identically.
func (f *BM25Filter) prepareTokens(text string) []string {
	tokens := bm25.Tokenize(text)
	if f.stemming {
		tokens = stemmer.StemAll(tokens)
	}
	return bm25.CleanTokens(tokens)
}

func tagPriority(tag string) float64 {
	if p, ok := tagPriorities[tag]; ok {
		return p
	}
	return 1.0
}
