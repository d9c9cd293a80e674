package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/models"
)

// Health returns a handler for GET /api/v1/health.
//
// The service holds no external connections, so a responsive process is a
// healthy one; the payload reports uptime and cache utilisation.
func Health(cc *cache.Cache, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries, maxEntries int
		if cc != nil {
			entries, maxEntries = cc.Stats()
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status: "healthy",
			Uptime: time.Since(startTime).Round(time.Second).String(),
			Cache: models.CacheStats{
				Entries:    entries,
				MaxEntries: maxEntries,
			},
			Version: "0.1.0",
		})
	}
}
