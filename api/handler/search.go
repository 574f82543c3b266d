package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brmiles/awardscout/cache"
	"github.com/brmiles/awardscout/models"
	"github.com/brmiles/awardscout/scraper"
	"github.com/brmiles/awardscout/webhook"
)

// Fetcher runs one scrape of the page identified by q. Implemented by
// *scraper.Scraper; handler tests substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context, q models.FlightQuery, debug bool) (*scraper.Result, error)
}

// SearchFlights returns the handler for POST /search-flights.
//
// Orchestration flow:
//  1. Bind + normalize (DD/MM/YYYY → YYYY-MM-DD) + validate; 400 before
//     the pipeline is ever touched.
//  2. Cache lookup on the canonical key; hit → {results, cached:true}.
//  3. Pipeline fetch on miss.
//  4. Store the result iff it is a record list — banner messages are a
//     success payload but never cached.
func SearchFlights(f Fetcher, cc *cache.Cache, alerts *webhook.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse + validate ─────────────────────────────────────
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Details: err.Error()})
			return
		}
		q, err := req.Normalize()
		if err != nil {
			msg := err.Error()
			var scrapeErr *models.ScrapeError
			if errors.As(err, &scrapeErr) {
				msg = scrapeErr.Message
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		// The key is built from normalized parameters only; the debug
		// flag never changes what is fetched or how it is keyed.
		key := cache.Key(q)
		if records, hit := cc.Get(key); hit {
			c.JSON(http.StatusOK, models.SearchResponse{Results: records, Cached: true})
			return
		}

		// ── 3. Fetch ────────────────────────────────────────────────
		result, err := f.Fetch(c.Request.Context(), q, req.Debug)
		if err != nil {
			alerts.NotifyAsync(&webhook.Event{
				Type:  webhook.EventFetchFailed,
				Route: key,
				Data:  err.Error(),
			})
			respondError(c, err)
			return
		}

		// Banner path: the site itself reported no availability.
		if result.Message != "" {
			c.JSON(http.StatusOK, models.SearchResponse{Results: result.Message, Cached: false})
			return
		}

		if len(result.Records) == 0 || !result.SortApplied {
			alerts.NotifyAsync(&webhook.Event{
				Type:  webhook.EventFetchDegraded,
				Route: key,
				Data: map[string]any{
					"records":      len(result.Records),
					"sort_applied": result.SortApplied,
				},
			})
		}

		// ── 4. Cache store (record lists only) ──────────────────────
		cc.Put(key, result.Records)

		c.JSON(http.StatusOK, models.SearchResponse{Results: result.Records, Cached: false})
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, "fetch failed", err)
	}
	c.JSON(mapErrorToStatus(scrapeErr), models.ErrorResponse{
		Error:   scrapeErr.Message,
		Details: scrapeErr.Code,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
