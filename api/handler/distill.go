package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
)

// Distill returns a handler for POST /api/v1/distill.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup keyed on content hash + output options.
//  3. Cleaner.Clean → distilled content   (records cleaning_ms)
//  4. Fill Timing, store in cache, return 200.
func Distill(cl *cleaner.Cleaner, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.DistillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.DistillResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Cache lookup ─────────────────────────────────────────
		// The key hashes the document itself plus every option that
		// changes the output, so identical content with a different
		// mode or query never collides.
		var cacheKey string
		if cc != nil && req.MaxAge > 0 {
			cacheKey = cache.Key(cacheKeyParts(&req)...)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				cached.CacheStatus = "hit"
				cached.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		// ── 3. Distill ──────────────────────────────────────────────
		cleanStart := time.Now()
		resp, err := cl.Clean(req.HTML, req.URL, req.OutputFormat, req.FilterMode, cleanOptions(&req))
		cleaningMs := time.Since(cleanStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				CleaningMs: cleaningMs,
			})
			return
		}

		// ── 4. Fill timing, cache, respond ──────────────────────────
		resp.Timing = models.TimingInfo{
			TotalMs:    time.Since(totalStart).Milliseconds(),
			CleaningMs: cleaningMs,
		}

		if cacheKey != "" {
			cc.Set(cacheKey, resp)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// cacheKeyParts flattens every output-affecting request field into the
// strings hashed for the cache key.
func cacheKeyParts(req *models.DistillRequest) []string {
	stemming := ""
	if req.Stemming != nil {
		stemming = strconv.FormatBool(*req.Stemming)
	}
	return []string{
		req.HTML,
		req.URL,
		req.OutputFormat,
		req.FilterMode,
		req.Query,
		req.CSSSelector,
		strings.Join(req.IncludeTags, ","),
		strings.Join(req.ExcludeTags, ","),
		strconv.FormatFloat(req.PruneThreshold, 'f', -1, 64),
		req.ThresholdMode,
		strconv.Itoa(req.MinWords),
		strconv.FormatFloat(req.BM25Threshold, 'f', -1, 64),
		stemming,
		req.Language,
	}
}

// cleanOptions maps request fields onto pipeline options.
func cleanOptions(req *models.DistillRequest) cleaner.CleanOptions {
	return cleaner.CleanOptions{
		IncludeTags:    req.IncludeTags,
		ExcludeTags:    req.ExcludeTags,
		CSSSelector:    req.CSSSelector,
		Query:          req.Query,
		PruneThreshold: req.PruneThreshold,
		ThresholdMode:  cleaner.ThresholdMode(req.ThresholdMode),
		MinWords:       req.MinWords,
		BM25Threshold:  req.BM25Threshold,
		Stemming:       req.Stemming,
		Language:       req.Language,
	}
}

// respondError maps a DistillError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	distillErr, ok := err.(*models.DistillError)
	if !ok {
		distillErr = models.NewDistillError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(distillErr), models.DistillResponse{
		Success: false,
		Error:   distillErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.DistillError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeExtraction:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
