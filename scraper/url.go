package scraper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/brmiles/awardscout/models"
)

// BuildSearchURL renders the search page URL for a query-based fetch.
// The fixed parameters (min seats, any cabin, fee cap) mirror the search
// form's defaults; changing them changes which rows the site renders.
func BuildSearchURL(base string, q models.FlightQuery) string {
	v := url.Values{}
	v.Set("min_seats", "1")
	v.Set("applicable_cabin", "any")
	v.Set("additional_days", "true")
	v.Set("additional_days_num", strconv.Itoa(q.WindowDays))
	v.Set("max_fees", "40000")
	v.Set("date", q.DepartureDate)
	v.Set("origins", q.Origin)
	v.Set("destinations", q.Destination)
	return base + "?" + v.Encode()
}

// BuildDirectURL joins path segments onto the direct-carrier base URL.
func BuildDirectURL(base string, segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
