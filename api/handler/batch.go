package handler

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/simhash"
	"github.com/use-agent/distill/webhook"
)

// duplicateThreshold is the maximum SimHash Hamming distance at which two
// batch documents count as near-duplicates.
const duplicateThreshold = 3

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*models.BatchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/distill.
// It validates the request, creates a batch job, and launches goroutines
// to distill each document concurrently.
func PostBatch(cl *cleaner.Cleaner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BatchResponse{
				Status: "failed",
			})
			return
		}

		if len(req.Documents) > cfg.Batch.MaxDocuments {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "too many documents in batch",
				},
			})
			return
		}

		jobID := "batch-" + randomID()
		job := &models.BatchJob{
			ID:        jobID,
			Status:    "processing",
			Total:     len(req.Documents),
			Completed: 0,
			Results:   make([]*models.DistillResponse, len(req.Documents)),
			CreatedAt: time.Now().Unix(),
		}
		batchStore.Store(jobID, job)

		// Launch distillation in background.
		go runBatch(cl, job, req, cfg.Batch.MaxConcurrency)

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.Documents),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := batchStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		job := val.(*models.BatchJob)
		c.JSON(http.StatusOK, models.BatchStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Completed: job.Completed,
			Total:     job.Total,
			Results:   job.Results,
		})
	}
}

// runBatch processes all documents in a batch job with concurrency limited
// by a semaphore, then flags near-duplicate results and fires the webhook.
func runBatch(cl *cleaner.Cleaner, job *models.BatchJob, req models.BatchRequest, maxConcurrent int) {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var completed atomic.Int32
	var failed atomic.Int32

	for i, doc := range req.Documents {
		wg.Add(1)
		go func(idx int, d models.BatchDocument) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp := distillOne(cl, d, req.Options)
			job.Results[idx] = resp

			if resp.Success {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
			job.Completed = int(completed.Load()) + int(failed.Load())
		}(i, doc)
	}

	wg.Wait()

	flagDuplicates(req.Documents, job.Results)

	failedCount := int(failed.Load())
	completedCount := int(completed.Load())

	switch {
	case failedCount == job.Total:
		job.Status = "failed"
	case failedCount > 0:
		job.Status = "partial"
	default:
		job.Status = "completed"
	}
	job.Completed = completedCount + failedCount

	slog.Info("batch job finished",
		"id", job.ID,
		"status", job.Status,
		"completed", completedCount,
		"failed", failedCount,
		"total", job.Total,
	)

	if req.WebhookURL != "" {
		webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
			Type:      "batch.completed",
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data: models.BatchStatusResponse{
				ID:        job.ID,
				Status:    job.Status,
				Completed: job.Completed,
				Total:     job.Total,
			},
		})
	}
}

// distillOne processes a single document using shared batch options.
func distillOne(cl *cleaner.Cleaner, doc models.BatchDocument, opts models.BatchOptions) *models.DistillResponse {
	totalStart := time.Now()

	// Build a DistillRequest from shared options.
	dreq := &models.DistillRequest{
		HTML:           doc.HTML,
		URL:            doc.URL,
		OutputFormat:   opts.OutputFormat,
		FilterMode:     opts.FilterMode,
		Query:          opts.Query,
		PruneThreshold: opts.PruneThreshold,
		ThresholdMode:  opts.ThresholdMode,
		MinWords:       opts.MinWords,
		BM25Threshold:  opts.BM25Threshold,
		Stemming:       opts.Stemming,
	}
	dreq.Defaults()

	cleanStart := time.Now()
	resp, err := cl.Clean(dreq.HTML, dreq.URL, dreq.OutputFormat, dreq.FilterMode, cleanOptions(dreq))
	cleaningMs := time.Since(cleanStart).Milliseconds()

	if err != nil {
		distillErr, ok := err.(*models.DistillError)
		if !ok {
			distillErr = models.NewDistillError(models.ErrCodeInternal, err.Error(), err)
		}
		return &models.DistillResponse{
			Success: false,
			Error:   distillErr.ToDetail(),
			Timing: models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				CleaningMs: cleaningMs,
			},
		}
	}

	resp.Timing = models.TimingInfo{
		TotalMs:    time.Since(totalStart).Milliseconds(),
		CleaningMs: cleaningMs,
	}
	return resp
}

// flagDuplicates fingerprints each successful result and marks documents
// whose content near-duplicates an earlier document in the batch. Textual
// content is fingerprinted directly; when a result carries no content the
// document's DOM structure is fingerprinted instead.
func flagDuplicates(docs []models.BatchDocument, results []*models.DistillResponse) {
	fingerprints := make([]uint64, len(results))
	for i, r := range results {
		if r == nil || !r.Success {
			continue
		}
		if r.Content != "" {
			fingerprints[i] = simhash.Fingerprint(r.Content)
		} else if i < len(docs) {
			fingerprints[i] = simhash.FingerprintDOM(docs[i].HTML)
		}
	}

	for i := range results {
		if results[i] == nil || !results[i].Success || fingerprints[i] == 0 {
			continue
		}
		for j := 0; j < i; j++ {
			if results[j] == nil || !results[j].Success || fingerprints[j] == 0 {
				continue
			}
			if simhash.Similar(fingerprints[i], fingerprints[j], duplicateThreshold) {
				idx := j
				results[i].DuplicateOf = &idx
				break
			}
		}
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
