package models

// SearchResponse is the response for POST /search-flights and the
// direct-carrier routes.
//
// Results is either a []FlightRecord or, when the site rendered an
// informational banner instead of a results table, the banner's text.
// Cached reports whether the records were served from the result cache;
// banner messages are never cached.
type SearchResponse struct {
	Results any  `json:"results"`
	Cached  bool `json:"cached"`
}

// ErrorResponse is the body for 4xx/5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PoolStats reports browser page pool utilisation.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

// HealthResponse is the response for GET /healthz.
type HealthResponse struct {
	Status  string    `json:"status"`
	Uptime  string    `json:"uptime"`
	Pool    PoolStats `json:"pool"`
	Version string    `json:"version"`
}
