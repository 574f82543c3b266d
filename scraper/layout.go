package scraper

import (
	"strings"

	"github.com/brmiles/awardscout/models"
)

// Selectors and tokens observed on the target site. Two page schemas exist
// (multi-program search results and single-carrier direct listings) but
// they share the same table markup, banner element and badge structure —
// only the column order differs.
const (
	selBanner        = ".alert-warning"
	selTableBody     = "table tbody"
	selAnyBadgeCell  = "table tbody tr td .badge"
	selBookingButton = "button.open-modal-btn"
	selBookingPanel  = "#bookingOptions"

	// The badge text the site renders for a cabin with no award seats.
	// The UI is localized to Portuguese.
	unavailableToken = "Indisponível"
)

// Layout maps semantic fields to column indices for one page schema.
// A field set to -1 does not exist in that schema.
type Layout struct {
	Name        string
	MinColumns  int
	Date        int
	Program     int
	Origin      int
	Destination int
	Economy     int
	Premium     int
	Business    int
	First       int
}

// searchResultsLayout is the multi-program schema rendered for
// origin/destination/date/window queries. Column 1 is a row-expander
// control and column 2 names the loyalty program.
var searchResultsLayout = Layout{
	Name:        "search-results",
	MinColumns:  9,
	Date:        0,
	Program:     2,
	Origin:      3,
	Destination: 4,
	Economy:     5,
	Premium:     6,
	Business:    7,
	First:       8,
}

// directCarrierLayout is the schema for fixed per-carrier pages, which
// omit the program column (every row belongs to the page's carrier).
var directCarrierLayout = Layout{
	Name:        "direct-carrier",
	MinColumns:  8,
	Date:        0,
	Program:     -1,
	Origin:      2,
	Destination: 3,
	Economy:     4,
	Premium:     5,
	Business:    6,
	First:       7,
}

// resolveLayout picks the column schema for the query shape.
func resolveLayout(q models.FlightQuery) Layout {
	if q.IsDirect() {
		return directCarrierLayout
	}
	return searchResultsLayout
}

// checkBanner looks for the site's informational banner. When present the
// page has no results table and the banner text IS the result — a
// first-class success path, not an error.
func checkBanner(s Session) (string, bool, error) {
	has, err := s.Has(selBanner)
	if err != nil || !has {
		return "", false, err
	}
	text, err := s.Text(selBanner)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}
