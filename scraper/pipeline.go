package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/brmiles/awardscout/config"
	"github.com/brmiles/awardscout/models"
)

// Result is the outcome of one fetch. Exactly one of Records/Message is
// meaningful: when the site substituted an informational banner for the
// results table, Message carries its text and Records is nil.
type Result struct {
	Records []models.FlightRecord
	Message string

	// SortApplied reports whether any sort strategy landed; when false,
	// Records follow the page's native order.
	SortApplied bool
}

// Fetch runs one complete scrape of the page identified by q.
//
// It owns the session lifecycle: a tab is borrowed at the start, and the
// deferred Close releases it on every exit path — success, degraded result
// or fatal error. The pipeline itself never retains state across calls.
func (s *Scraper) Fetch(ctx context.Context, q models.FlightQuery, debug bool) (*Result, error) {
	// ── 1. Timeout guard ─────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxTimeout)
	defer cancel()

	// ── 2. Open session ──────────────────────────────────────────────
	sess, err := s.newSession(ctx)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page session",
			err,
		)
	}

	// ── 3. CRITICAL DEFER: release the tab on every exit path ───────
	defer sess.Close()

	return runPipeline(sess, s.cfg, q, debug)
}

// runPipeline drives one fetch over an already-open session.
//
// Steps (numbered to match the inline comments):
//
//  4. Navigate            – search URL built from q, or q.DirectURL as-is
//  5. Readiness           – DOM-stable wait + anti-bot grace (fatal on timeout)
//  6. Banner check        – informational banner short-circuits to a message
//  7. Table wait          – bounded wait for rendered rows (non-fatal)
//  8. Sort                – best-effort cheapest-economy-first ordering
//  9. Extract             – one table-HTML snapshot → normalized records
//  10. Enrich             – booking links for the top record (best-effort)
//
// Errors up to and including step 6 are fatal and propagate. From step 7
// on, failures degrade the result (missing sort order, missing links,
// empty list) instead of aborting — except a session that has become
// unusable, which surfaces from whichever call hit it first.
func runPipeline(sess Session, cfg config.ScraperConfig, q models.FlightQuery, debug bool) (*Result, error) {
	start := time.Now()

	// ── 4. Navigate ──────────────────────────────────────────────────
	target := q.DirectURL
	if !q.IsDirect() {
		target = BuildSearchURL(cfg.SearchBaseURL, q)
	}
	layout := resolveLayout(q)
	slog.Debug("navigating", "url", target, "layout", layout.Name)
	if err := sess.Navigate(target); err != nil {
		return nil, categorizeError(err, "navigation to target page failed")
	}

	// ── 5. Readiness ─────────────────────────────────────────────────
	if err := awaitReadiness(sess, cfg, debug); err != nil {
		return nil, categorizeError(err, "page never became ready")
	}

	// ── 6. Banner check ──────────────────────────────────────────────
	if msg, found, err := checkBanner(sess); err != nil {
		return nil, categorizeError(err, "banner check failed")
	} else if found {
		slog.Info("site reported no availability", "message", msg, "elapsed", time.Since(start))
		return &Result{Message: msg}, nil
	}

	// ── 7. Table wait (non-fatal) ────────────────────────────────────
	awaitTable(sess, cfg)

	// ── 8. Sort (best-effort) ────────────────────────────────────────
	sorted := attemptSort(sess, layout, cfg)

	// ── 9. Extract ───────────────────────────────────────────────────
	tableHTML, err := sess.OuterHTML(selTableBody)
	if err != nil {
		// No table at all after the waits above: degraded empty result
		// rather than an error, per the non-fatal table-wait contract.
		slog.Warn("results table absent at extraction time", "error", err)
		return &Result{Records: []models.FlightRecord{}, SortApplied: sorted}, nil
	}
	records, err := extractRecords(tableHTML, layout)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse results table", err)
	}

	// ── 10. Enrich (best-effort) ─────────────────────────────────────
	enrichBookingLinks(sess, records, cfg, sorted)

	slog.Info("fetch complete",
		"layout", layout.Name,
		"records", len(records),
		"sorted", sorted,
		"elapsed", time.Since(start),
	)
	return &Result{Records: records, SortApplied: sorted}, nil
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
