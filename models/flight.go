package models

// CabinAvailability reports award availability for one cabin of one flight.
// Points is the raw displayed cost token — program-specific and not
// necessarily numeric, so it is preserved as text. Details carries the
// badge's tooltip text and may be empty even when seats are available.
type CabinAvailability struct {
	Available bool   `json:"available"`
	Points    string `json:"points,omitempty"`
	Details   string `json:"details,omitempty"`
}

// Unavailable is the CabinAvailability for a cabin with no award seats.
func Unavailable() CabinAvailability {
	return CabinAvailability{Available: false}
}

// Availability builds an available CabinAvailability from the badge text
// and its tooltip.
func Availability(points, details string) CabinAvailability {
	return CabinAvailability{Available: true, Points: points, Details: details}
}

// BookingLink is one partner reservation link from a flight's detail panel.
type BookingLink struct {
	Partner string `json:"partner"`
	URL     string `json:"url"`
}

// FlightRecord is one normalized row of the availability table.
//
// Program is populated only for the search-results layout, where each row
// belongs to a loyalty program; direct-carrier pages omit the column.
// PremiumEconomy and First are nil when the page did not render those
// columns for the row. BookingLinks is attached to the top-ranked record
// only (see scraper.enrichBookingLinks).
type FlightRecord struct {
	Date           string             `json:"date"`
	Program        string             `json:"program,omitempty"`
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	Economy        CabinAvailability  `json:"economy"`
	PremiumEconomy *CabinAvailability `json:"premium_economy,omitempty"`
	Business       CabinAvailability  `json:"business"`
	First          *CabinAvailability `json:"first,omitempty"`
	BookingLinks   []BookingLink      `json:"booking_links,omitempty"`
}

// FlightQuery identifies one target page. Exactly one of the
// origin/destination/date/window tuple or DirectURL must be set.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string // canonical YYYY-MM-DD
	WindowDays    int
	DirectURL     string
}

// IsDirect reports whether the query targets a direct-carrier page.
func (q FlightQuery) IsDirect() bool {
	return q.DirectURL != ""
}
