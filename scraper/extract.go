package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/brmiles/awardscout/models"
)

// Pre-compiled matchers for the hot per-row lookups.
var (
	rowMatcher     = cascadia.MustCompile("tr")
	cellMatcher    = cascadia.MustCompile("td")
	badgeMatcher   = cascadia.MustCompile(".badge")
	bookingMatcher = cascadia.MustCompile(".open-modal-btn")
)

// Tooltip attribute holding the badge's detail text. The site has shipped
// both the Bootstrap 5 attribute and the plain title, so we try them in
// that order.
var tooltipAttrs = []string{"data-bs-original-title", "title"}

// extractRecords converts the table body's HTML into normalized flight
// records using the resolved layout's column mapping.
//
// It parses a single HTML snapshot rather than issuing per-cell browser
// reads: extraction over a fixed snapshot is deterministic, and one
// round-trip is far cheaper than hundreds.
//
// A row qualifies if it exposes a booking control or has at least the
// layout's minimum column count. Short rows lose their optional fields;
// they are never an error.
func extractRecords(tableHTML string, l Layout) ([]models.FlightRecord, error) {
	// The snapshot is a bare <tbody> fragment; without an enclosing
	// <table> the HTML5 parser hoists row content out of the tree.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + tableHTML + "</table>"))
	if err != nil {
		return nil, err
	}

	records := []models.FlightRecord{}
	doc.FindMatcher(rowMatcher).Each(func(_ int, row *goquery.Selection) {
		cells := row.FindMatcher(cellMatcher)
		hasBooking := row.FindMatcher(bookingMatcher).Length() > 0
		if !hasBooking && cells.Length() < l.MinColumns {
			return // not a data row (spacer, expander detail, header repeat)
		}

		rec := models.FlightRecord{
			Date:        cellText(cells, l.Date),
			Origin:      cellText(cells, l.Origin),
			Destination: cellText(cells, l.Destination),
			Economy:     parseCabin(cells, l.Economy),
			Business:    parseCabin(cells, l.Business),
		}
		if l.Program >= 0 {
			rec.Program = cellText(cells, l.Program)
		}
		if premium, ok := parseOptionalCabin(cells, l.Premium); ok {
			rec.PremiumEconomy = &premium
		}
		if first, ok := parseOptionalCabin(cells, l.First); ok {
			rec.First = &first
		}
		records = append(records, rec)
	})

	return records, nil
}

// cellText returns the trimmed text of the idx-th cell, or "" when the row
// is shorter than expected.
func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}

// parseCabin reads the idx-th cell's availability badge. No badge, a
// missing cell, or the unavailable token all mean no seats — never an
// Available value with empty fields.
func parseCabin(cells *goquery.Selection, idx int) models.CabinAvailability {
	if idx < 0 || idx >= cells.Length() {
		return models.Unavailable()
	}
	badge := cells.Eq(idx).FindMatcher(badgeMatcher).First()
	if badge.Length() == 0 {
		return models.Unavailable()
	}
	text := strings.TrimSpace(badge.Text())
	if text == "" || strings.Contains(text, unavailableToken) {
		return models.Unavailable()
	}
	details := ""
	for _, attr := range tooltipAttrs {
		if v, ok := badge.Attr(attr); ok && v != "" {
			details = v
			break
		}
	}
	return models.Availability(text, details)
}

// parseOptionalCabin is parseCabin for columns a schema may not render at
// all; the second return is false when the row has no such column, which
// surfaces as an absent field rather than Unavailable.
func parseOptionalCabin(cells *goquery.Selection, idx int) (models.CabinAvailability, bool) {
	if idx < 0 || idx >= cells.Length() {
		return models.CabinAvailability{}, false
	}
	return parseCabin(cells, idx), true
}
