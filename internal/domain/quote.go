package domain

import "time"

// QuoteStatus represents the state of a quote's recalculation cycle.
type QuoteStatus string

const (
	QuoteStatusCalculating QuoteStatus = "CALCULATING"
	QuoteStatusReady       QuoteStatus = "READY"
	QuoteStatusFailed      QuoteStatus = "FAILED"
)

// QuoteInput is the pricing input captured for a quote. It is persisted
// so payment capture can re-derive the total server-side instead of
// trusting a client-held value.
type QuoteInput struct {
	VehicleType     string      `json:"vehicle_type"`
	BookingType     BookingType `json:"booking_type"`
	DistanceKm      float64     `json:"distance_km"`
	DurationMinutes float64     `json:"duration_minutes"`
	HourlyHours     float64     `json:"hourly_hours,omitempty"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	StopoverCount   int         `json:"stopover_count"`
	Pickup          Location    `json:"pickup"`
	Destination     Location    `json:"destination"`
	EstimatedOnly   bool        `json:"estimated_only"`
}

// Quote is a priced booking request. Seq is the trigger sequence number
// of the most recently applied calculation; results from superseded
// calculations are discarded.
type Quote struct {
	ID        string
	Status    QuoteStatus
	Seq       int64
	Input     QuoteInput
	Breakdown *PriceBreakdown
	ErrorCode string
	CreatedAt time.Time
	UpdatedAt time.Time
}
