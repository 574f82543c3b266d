package models

import (
	"fmt"
	"strings"
	"time"
)

// AllowedWindowDays is the fixed set of additional-days windows the target
// site accepts in its search form. Any other value is rejected before the
// pipeline is invoked.
var AllowedWindowDays = map[int]bool{
	1:   true,
	3:   true,
	7:   true,
	14:  true,
	28:  true,
	60:  true,
	160: true,
}

// SearchRequest is the payload for POST /search-flights.
//
// DepartureDate is accepted in DD/MM/YYYY and normalized to the canonical
// YYYY-MM-DD form before the cache key or the search URL is built. Debug
// enables verbose tracing and diagnostic screenshots; it never alters
// extraction semantics or the cache key.
type SearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	WindowDays    int    `json:"additional_days_num"`
	Debug         bool   `json:"debug,omitempty"`
}

// Normalize validates the request and returns the pipeline-facing query.
// Validation failures are reported as *ScrapeError with ErrCodeInvalidInput.
func (r *SearchRequest) Normalize() (FlightQuery, error) {
	if r.Origin == "" || r.Destination == "" || r.DepartureDate == "" {
		return FlightQuery{}, NewScrapeError(
			ErrCodeInvalidInput,
			"origin, destination and departureDate are required",
			nil,
		)
	}
	if !AllowedWindowDays[r.WindowDays] {
		return FlightQuery{}, NewScrapeError(
			ErrCodeInvalidInput,
			fmt.Sprintf("additional_days_num must be one of 1, 3, 7, 14, 28, 60, 160; got %d", r.WindowDays),
			nil,
		)
	}

	date, err := NormalizeDate(r.DepartureDate)
	if err != nil {
		return FlightQuery{}, NewScrapeError(
			ErrCodeInvalidInput,
			"departureDate must be in DD/MM/YYYY format",
			err,
		)
	}

	return FlightQuery{
		Origin:        strings.ToUpper(strings.TrimSpace(r.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(r.Destination)),
		DepartureDate: date,
		WindowDays:    r.WindowDays,
	}, nil
}

// NormalizeDate converts a DD/MM/YYYY date to the canonical YYYY-MM-DD form.
func NormalizeDate(d string) (string, error) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(d))
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
