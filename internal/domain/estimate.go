package domain

// Location is a geographic point with an optional human-readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// IsZero reports whether the location carries neither coordinates nor
// an address.
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0 && l.Address == ""
}

// RouteEstimate is the distance/duration result from a routing lookup.
// TrafficAware is false for fallback or non-traffic routes; prices
// derived from such estimates are flagged as estimate-only.
type RouteEstimate struct {
	DistanceKm      float64
	DurationMinutes float64
	TrafficAware    bool
}
