package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brmiles/awardscout/config"
	"github.com/brmiles/awardscout/models"
	"github.com/brmiles/awardscout/scraper"
)

// reservedNames are route segments the generic passthrough must not
// intercept: they belong to other routes (or to the two-segment listing
// form, which requires an airport).
var reservedNames = map[string]bool{
	"arriving":       true,
	"departing":      true,
	"search-flights": true,
}

// DirectListing returns the handler for GET /:name/:airport, serving the
// arrivals/departures board of one airport. Any first segment other than
// "arriving" or "departing" is a 404.
func DirectListing(f Fetcher, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := strings.ToLower(c.Param("name"))
		if kind != "arriving" && kind != "departing" {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
			return
		}
		airport := strings.ToUpper(c.Param("airport"))
		url := scraper.BuildDirectURL(cfg.DirectBaseURL, kind, airport)
		fetchDirect(c, f, url)
	}
}

// DirectCarrier returns the handler for GET /:name — the generic
// passthrough to a fixed per-carrier page, name lower-cased.
func DirectCarrier(f Fetcher, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.ToLower(c.Param("name"))
		if reservedNames[name] {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
			return
		}
		url := scraper.BuildDirectURL(cfg.DirectBaseURL, name)
		fetchDirect(c, f, url)
	}
}

// fetchDirect runs the pipeline against a direct-carrier URL. Direct pages
// are not cached: the cache key space is defined over the search query
// tuple only.
func fetchDirect(c *gin.Context, f Fetcher, url string) {
	debug := c.Query("debug") == "true"

	result, err := f.Fetch(c.Request.Context(), models.FlightQuery{DirectURL: url}, debug)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Message != "" {
		c.JSON(http.StatusOK, models.SearchResponse{Results: result.Message, Cached: false})
		return
	}
	c.JSON(http.StatusOK, models.SearchResponse{Results: result.Records, Cached: false})
}
