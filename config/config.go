package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Alert     AlertConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless. Running headful
	// helps when diagnosing the anti-bot challenge on a workstation.
	Headless bool // default: true

	// MaxPages is the page pool capacity — the cap on concurrent tabs and
	// therefore on concurrent fetches.
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ScraperConfig controls the fetch pipeline's named waits and targets.
//
// The three wait durations correspond to distinct phases and are not
// interchangeable: NavigationTimeout bounds the network-idle wait,
// ChallengeGrace is a blind wait for the anti-bot challenge (it emits no
// completion signal), and TableWait bounds the optional wait for the
// client-side table render.
type ScraperConfig struct {
	// SearchBaseURL is the award-search endpoint of the target site.
	SearchBaseURL string // default: "https://seats.aero/search"

	// DirectBaseURL is the base for per-carrier and per-airport pages.
	DirectBaseURL string // default: "https://seats.aero"

	// MaxTimeout is the hard deadline on one whole fetch.
	MaxTimeout time.Duration // default: 180s

	// NavigationTimeout bounds navigation plus the network-idle wait.
	// Fatal when exceeded.
	NavigationTimeout time.Duration // default: 75s

	// ChallengeGrace is the fixed post-navigation wait for the anti-bot
	// challenge and the client-side table render to complete.
	ChallengeGrace time.Duration // default: 20s

	// TableWait bounds the optional wait for a rendered table row.
	// Non-fatal when exceeded.
	TableWait time.Duration // default: 30s

	// SortAttemptTimeout bounds each individual sort strategy.
	SortAttemptTimeout time.Duration // default: 8s

	// SortSettle is the wait after a successful sort click for the table
	// to re-render in the new order.
	SortSettle time.Duration // default: 4s

	// BookingSettle is the wait after opening a row's detail panel for the
	// partner links to populate.
	BookingSettle time.Duration // default: 3s

	// BlockedResourceTypes lists resource types to block during fetches.
	// Scripts are never blocked: the challenge needs them.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// SnapshotDir is where debug screenshots are written.
	SnapshotDir string // default: os.TempDir()
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	// TTL is how long a fetched record list stays servable.
	TTL time.Duration // default: 30m

	// SweepThreshold is the entry count above which a Put triggers a full
	// sweep of expired entries.
	SweepThreshold int // default: 256
}

// RateLimitConfig controls per-IP rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per client IP.
	Burst int // default: 3
}

// AlertConfig controls webhook alerting on failed or degraded fetches.
type AlertConfig struct {
	// WebhookURL receives fetch.failed and fetch.degraded events.
	// Alerting is disabled when empty.
	WebhookURL string

	// Secret signs webhook payloads with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// The listen port comes from PORT; everything else is AWARDSCOUT_*.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("AWARDSCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("PORT", 3000),
			Mode: envOr("AWARDSCOUT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("AWARDSCOUT_HEADLESS", true),
			MaxPages:   envIntOr("AWARDSCOUT_MAX_PAGES", 4),
			NoSandbox:  envBoolOr("AWARDSCOUT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("AWARDSCOUT_BROWSER_BIN"),
		},
		Scraper: ScraperConfig{
			SearchBaseURL:      envOr("AWARDSCOUT_SEARCH_BASE_URL", "https://seats.aero/search"),
			DirectBaseURL:      envOr("AWARDSCOUT_DIRECT_BASE_URL", "https://seats.aero"),
			MaxTimeout:         envDurationOr("AWARDSCOUT_MAX_TIMEOUT", 180*time.Second),
			NavigationTimeout:  envDurationOr("AWARDSCOUT_NAV_TIMEOUT", 75*time.Second),
			ChallengeGrace:     envDurationOr("AWARDSCOUT_CHALLENGE_GRACE", 20*time.Second),
			TableWait:          envDurationOr("AWARDSCOUT_TABLE_WAIT", 30*time.Second),
			SortAttemptTimeout: envDurationOr("AWARDSCOUT_SORT_ATTEMPT_TIMEOUT", 8*time.Second),
			SortSettle:         envDurationOr("AWARDSCOUT_SORT_SETTLE", 4*time.Second),
			BookingSettle:      envDurationOr("AWARDSCOUT_BOOKING_SETTLE", 3*time.Second),
			BlockedResourceTypes: envSliceOr("AWARDSCOUT_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			SnapshotDir: envOr("AWARDSCOUT_SNAPSHOT_DIR", os.TempDir()),
		},
		Cache: CacheConfig{
			TTL:            envDurationOr("AWARDSCOUT_CACHE_TTL", 30*time.Minute),
			SweepThreshold: envIntOr("AWARDSCOUT_CACHE_SWEEP_THRESHOLD", 256),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("AWARDSCOUT_RATE_RPS", 1.0),
			Burst:             envIntOr("AWARDSCOUT_RATE_BURST", 3),
		},
		Alert: AlertConfig{
			WebhookURL: os.Getenv("AWARDSCOUT_ALERT_WEBHOOK_URL"),
			Secret:     os.Getenv("AWARDSCOUT_ALERT_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("AWARDSCOUT_LOG_LEVEL", "info"),
			Format: envOr("AWARDSCOUT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
