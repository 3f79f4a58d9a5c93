package domain

// BookingType distinguishes per-ride bookings from hourly charters.
type BookingType string

const (
	BookingTypeRide   BookingType = "RIDE"
	BookingTypeHourly BookingType = "HOURLY"
)

// SurchargeName identifies a surcharge rule.
type SurchargeName string

const (
	SurchargeRushHour      SurchargeName = "RUSH_HOUR"
	SurchargeNightTime     SurchargeName = "NIGHT_TIME"
	SurchargeAirportPickup SurchargeName = "AIRPORT_PICKUP"
	SurchargeStopover      SurchargeName = "STOPOVER"
)

// SurchargeKind determines how a surcharge amount is interpreted.
type SurchargeKind string

const (
	SurchargeKindFixed      SurchargeKind = "FIXED"
	SurchargeKindPercentage SurchargeKind = "PERCENTAGE"
)

// RateCard holds the per-vehicle-type pricing rates. Rate cards are
// admin-editable and keyed by vehicle type (e.g. "standard", "comfort",
// "luxury", "van").
type RateCard struct {
	VehicleType    string
	BasePrice      float64
	PerKmRate      float64
	PerMinuteRate  float64
	PerHourRate    float64
	NightSurcharge float64
	MinimumFare    float64
	Currency       string
}

// SurchargeRule is an admin-configured surcharge definition. For
// SurchargeKindFixed, Amount is a money amount; for
// SurchargeKindPercentage, Amount is a fraction of the subtotal
// (0.10 = 10%).
type SurchargeRule struct {
	ID      string
	Name    SurchargeName
	Kind    SurchargeKind
	Amount  float64
	Enabled bool
}

// AirportZone is a circular geofence around an airport pickup area.
type AirportZone struct {
	ID       string
	Name     string
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// SurchargeLine is one fired surcharge in a price breakdown. Amount is
// always the resulting money amount, never a raw percentage.
type SurchargeLine struct {
	Name        SurchargeName `json:"name"`
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	Kind        SurchargeKind `json:"kind"`
}

// PriceBreakdown is the itemized result of a fare calculation. It is
// constructed fresh on every recalculation and never mutated in place.
type PriceBreakdown struct {
	BasePrice      float64         `json:"base_price"`
	DistancePrice  float64         `json:"distance_price"`
	TimePrice      float64         `json:"time_price"`
	Surcharges     []SurchargeLine `json:"surcharges"`
	Subtotal       float64         `json:"subtotal"`
	TotalBeforeTax float64         `json:"total_before_tax"`
	Tax            float64         `json:"tax"`
	Total          float64         `json:"total"`
	Minimum        float64         `json:"minimum"`
	MinimumApplied bool            `json:"minimum_applied"`
	EstimatedOnly  bool            `json:"estimated_only"`
	Currency       string          `json:"currency"`
}
