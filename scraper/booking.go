package scraper

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/brmiles/awardscout/config"
	"github.com/brmiles/awardscout/models"
)

var bookingLinkMatcher = cascadia.MustCompile("a.dropdown-item")

// enrichBookingLinks opens the first row's booking panel and attaches the
// partner links it finds to records[0].
//
// The first booking control in DOM order and records[0] should be the same
// flight: sorting already put the cheapest row on top, and extraction
// walked rows in DOM order. If sorting failed the two can diverge — that
// is logged loudly as a likely upstream bug, not silently resolved.
//
// Best-effort throughout: a missing control, a panel that never populates
// or an empty link list leaves records[0].BookingLinks nil.
func enrichBookingLinks(s Session, records []models.FlightRecord, cfg config.ScraperConfig, sorted bool) {
	if len(records) == 0 {
		return
	}
	if !sorted {
		slog.Warn("booking links requested with unsorted table; first control may not match top record")
	}

	if err := s.Click(selBookingButton, cfg.SortAttemptTimeout); err != nil {
		slog.Warn("booking panel did not open", "error", err)
		return
	}
	if err := s.Sleep(cfg.BookingSettle); err != nil {
		return
	}

	panelHTML, err := s.OuterHTML(selBookingPanel)
	if err != nil {
		slog.Warn("booking panel not readable", "error", err)
		return
	}

	links := parseBookingLinks(panelHTML)
	if len(links) == 0 {
		slog.Debug("booking panel contained no partner links")
		return
	}
	records[0].BookingLinks = links
}

// parseBookingLinks extracts partner links from the detail panel's HTML,
// in DOM order.
func parseBookingLinks(panelHTML string) []models.BookingLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(panelHTML))
	if err != nil {
		return nil
	}
	var links []models.BookingLink
	doc.FindMatcher(bookingLinkMatcher).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, models.BookingLink{
			Partner: strings.TrimSpace(a.Text()),
			URL:     href,
		})
	})
	return links
}
