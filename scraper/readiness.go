package scraper

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/brmiles/awardscout/config"
)

// awaitReadiness blocks until the freshly navigated page is safe to query.
//
// Two waits, with different contracts:
//
//   - The DOM-stable wait bounds the initial render. Exceeding
//     NavigationTimeout means the page never loaded; fatal.
//   - The challenge grace is a blind fixed wait. The anti-bot interstitial
//     emits no completion signal, so there is nothing to poll — we simply
//     give it (and the client-side table render behind it) time to finish.
//
// When debug is set a full-page screenshot is captured at the end for
// postmortems; screenshot failure is logged and ignored.
func awaitReadiness(s Session, cfg config.ScraperConfig, debug bool) error {
	if err := s.WaitStable(cfg.NavigationTimeout); err != nil {
		return err
	}

	slog.Debug("challenge grace wait", "duration", cfg.ChallengeGrace)
	if err := s.Sleep(cfg.ChallengeGrace); err != nil {
		return err
	}

	if debug {
		path := filepath.Join(cfg.SnapshotDir,
			"awardscout-"+time.Now().Format("20060102-150405")+".png")
		if err := s.Screenshot(path); err != nil {
			slog.Warn("debug screenshot failed", "path", path, "error", err)
		} else {
			slog.Info("debug screenshot captured", "path", path)
		}
	}

	return nil
}

// awaitTable waits for at least one rendered badge cell, bounded by
// TableWait. Its absence is tolerated: a slow render still yields whatever
// rows exist at extraction time, and a banner page has no rows at all.
// Returns whether a row showed up.
func awaitTable(s Session, cfg config.ScraperConfig) bool {
	if err := s.WaitVisible(selAnyBadgeCell, cfg.TableWait); err != nil {
		slog.Warn("results table did not render in time, extracting anyway",
			"timeout", cfg.TableWait, "error", err)
		return false
	}
	return true
}
