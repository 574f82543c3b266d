package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brmiles/awardscout/models"
)

// PoolReporter exposes page pool utilisation. Implemented by *scraper.Scraper.
type PoolReporter interface {
	Stats() models.PoolStats
}

// Health returns the handler for GET /healthz.
//
// Reports pool utilisation and degrades status when > 80% of pages are active.
func Health(sc PoolReporter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := sc.Stats()

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Pool:    stats,
			Version: "0.1.0",
		})
	}
}
