package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brmiles/awardscout/api/handler"
	"github.com/brmiles/awardscout/api/middleware"
	"github.com/brmiles/awardscout/cache"
	"github.com/brmiles/awardscout/config"
	"github.com/brmiles/awardscout/webhook"
)

// Deps bundles the collaborators the routes need. Scraper satisfies both
// interfaces in production; tests swap in fakes.
type Deps struct {
	Fetcher handler.Fetcher
	Pool    handler.PoolReporter
	Cache   *cache.Cache
	Alerts  *webhook.Notifier
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain: Recovery → Logger → RateLimit (healthz is registered
// before the limiter so monitoring probes always get through).
//
// Route shape note: the two parameterized GET routes share the ":name"
// wildcard because gin requires one wildcard name per position. The
// one-segment handler rejects reserved names (arriving, departing,
// search-flights) and the two-segment handler rejects anything that is not
// an arrivals/departures board, which together give the routing rules of
// the public surface.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/healthz", handler.Health(deps.Pool, startTime))

	limited := r.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))

	limited.POST("/search-flights", handler.SearchFlights(deps.Fetcher, deps.Cache, deps.Alerts))
	limited.GET("/:name", handler.DirectCarrier(deps.Fetcher, cfg.Scraper))
	limited.GET("/:name/:airport", handler.DirectListing(deps.Fetcher, cfg.Scraper))

	return r
}
