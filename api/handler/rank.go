package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/bm25"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/stemmer"
)

// Rank returns a handler for POST /api/v1/rank.
//
// Scores plain-text documents against a query with BM25, using the same
// tokenize → stem → stopword-clean preparation as the bm25 filter mode.
// Scores come back in document order; documents sharing no terms with the
// query score zero.
func Rank() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RankRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.RankResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		stemming := true
		if req.Stemming != nil {
			stemming = *req.Stemming
		}

		prepare := func(text string) []string {
			tokens := bm25.Tokenize(text)
			if stemming {
				tokens = stemmer.StemAll(tokens)
			}
			return bm25.CleanTokens(tokens)
		}

		corpus := make([][]string, len(req.Documents))
		for i, d := range req.Documents {
			corpus[i] = prepare(d)
		}

		var opts []bm25.Option
		if req.K1 > 0 {
			opts = append(opts, bm25.WithK1(req.K1))
		}
		if req.B > 0 {
			opts = append(opts, bm25.WithB(req.B))
		}

		ranker := bm25.NewRanker(corpus, opts...)
		scores := ranker.GetScores(prepare(req.Query))

		c.JSON(http.StatusOK, models.RankResponse{
			Success: true,
			Scores:  scores,
		})
	}
}
