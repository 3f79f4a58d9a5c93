package service

import (
	"fmt"
	"time"

	"chauffeur/internal/domain"
)

// FareInput is the full input to a fare calculation.
type FareInput struct {
	DistanceKm      float64
	DurationMinutes float64
	VehicleType     string
	ScheduledAt     time.Time
	StopoverCount   int
	BookingType     domain.BookingType
	HourlyHours     float64
	Pickup          domain.Location
	Destination     domain.Location
	EstimatedOnly   bool
}

// FareCalculator turns a fare input and the current pricing snapshot
// into an itemized price breakdown.
type FareCalculator struct {
	config *ConfigService
}

// NewFareCalculator creates a new FareCalculator.
func NewFareCalculator(config *ConfigService) *FareCalculator {
	return &FareCalculator{config: config}
}

// Calculate prices the input against the current configuration
// snapshot. It is a pure function of the input and the snapshot:
// identical inputs against the same snapshot yield identical
// breakdowns.
func (c *FareCalculator) Calculate(input FareInput) (*domain.PriceBreakdown, error) {
	snapshot, err := c.config.Snapshot()
	if err != nil {
		return nil, err
	}
	return CalculateFare(snapshot, input)
}

// CalculateFare prices an input against an explicit snapshot. Exposed
// separately so callers holding a snapshot (and tests) can price
// without the config service.
func CalculateFare(snapshot *Snapshot, input FareInput) (*domain.PriceBreakdown, error) {
	if err := validateFareInput(input); err != nil {
		return nil, err
	}

	rate, err := snapshot.RateCard(input.VehicleType)
	if err != nil {
		return nil, err
	}

	// Price components, each rounded once.
	basePrice := RoundMoney(rate.BasePrice)

	var distancePrice, timePrice float64
	if input.BookingType == domain.BookingTypeHourly {
		// Hourly bookings bill by committed duration, not realized
		// distance.
		timePrice = RoundMoney(input.HourlyHours * rate.PerHourRate)
	} else {
		distancePrice = RoundMoney(input.DistanceKm * rate.PerKmRate)
		timePrice = RoundMoney(input.DurationMinutes * rate.PerMinuteRate)
	}

	subtotal := RoundMoney(basePrice + distancePrice + timePrice)

	surcharges := snapshot.RuleSet().Applicable(SurchargeContext{
		ScheduledAt:   input.ScheduledAt,
		Pickup:        input.Pickup,
		Destination:   input.Destination,
		StopoverCount: input.StopoverCount,
	}, subtotal, rate)

	var surchargeSum float64
	for _, line := range surcharges {
		surchargeSum += line.Amount
	}

	totalBeforeTax := RoundMoney(subtotal + surchargeSum)
	minimumApplied := false
	if totalBeforeTax < rate.MinimumFare {
		// The itemized components stay as computed; only the total is
		// clamped, and the minimum is reported for display.
		totalBeforeTax = RoundMoney(rate.MinimumFare)
		minimumApplied = true
	}

	tax := RoundMoney(totalBeforeTax * snapshot.TaxRate())
	total := RoundMoney(totalBeforeTax + tax)

	currency := rate.Currency
	if currency == "" {
		currency = snapshot.Currency()
	}

	return &domain.PriceBreakdown{
		BasePrice:      basePrice,
		DistancePrice:  distancePrice,
		TimePrice:      timePrice,
		Surcharges:     surcharges,
		Subtotal:       subtotal,
		TotalBeforeTax: totalBeforeTax,
		Tax:            tax,
		Total:          total,
		Minimum:        rate.MinimumFare,
		MinimumApplied: minimumApplied,
		EstimatedOnly:  input.EstimatedOnly,
		Currency:       currency,
	}, nil
}

func validateFareInput(input FareInput) error {
	switch {
	case input.DistanceKm < 0:
		return fmt.Errorf("%w: negative distance", ErrInvalidInput)
	case input.DurationMinutes < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidInput)
	case input.StopoverCount < 0:
		return fmt.Errorf("%w: negative stopover count", ErrInvalidInput)
	case input.ScheduledAt.IsZero():
		return fmt.Errorf("%w: missing scheduled time", ErrInvalidInput)
	case input.VehicleType == "":
		return fmt.Errorf("%w: missing vehicle type", ErrInvalidInput)
	}

	switch input.BookingType {
	case domain.BookingTypeRide:
	case domain.BookingTypeHourly:
		if input.HourlyHours <= 0 {
			return fmt.Errorf("%w: hourly booking requires a positive duration", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, input.BookingType)
	}

	return nil
}

// ValidateBookingType parses a booking type string, defaulting to RIDE
// when empty.
func ValidateBookingType(s string) (domain.BookingType, error) {
	if s == "" {
		return domain.BookingTypeRide, nil
	}
	bt := domain.BookingType(s)
	switch bt {
	case domain.BookingTypeRide, domain.BookingTypeHourly:
		return bt, nil
	}
	return "", fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, s)
}
