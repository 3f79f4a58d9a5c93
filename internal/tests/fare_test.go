package tests

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"chauffeur/internal/domain"
	"chauffeur/internal/service"
)

// ──────────────────────────────────────────────
// 1. FARE CALCULATION
// ──────────────────────────────────────────────

func TestFare_StandardRide(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, []*domain.SurchargeRule{rushHourRule(3)}, nil)

	breakdown, err := service.CalculateFare(snapshot, service.FareInput{
		VehicleType:     testVehicleStandard,
		BookingType:     domain.BookingTypeRide,
		DistanceKm:      3,
		DurationMinutes: 10,
		ScheduledAt:     weekdayAt(14),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	assertMoney(t, "base price", breakdown.BasePrice, 5.00)
	assertMoney(t, "distance price", breakdown.DistancePrice, 6.00)
	assertMoney(t, "time price", breakdown.TimePrice, 3.00)
	assertMoney(t, "subtotal", breakdown.Subtotal, 14.00)
	assertMoney(t, "total before tax", breakdown.TotalBeforeTax, 14.00)
	assertMoney(t, "tax", breakdown.Tax, 2.94)
	assertMoney(t, "total", breakdown.Total, 16.94)

	if len(breakdown.Surcharges) != 0 {
		t.Errorf("expected no surcharges at 14:00, got %d", len(breakdown.Surcharges))
	}
	if breakdown.MinimumApplied {
		t.Error("expected minimum fare not to apply")
	}
	if breakdown.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", breakdown.Currency)
	}
}

func TestFare_MinimumFareClamp(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, nil, nil)

	breakdown, err := service.CalculateFare(snapshot, service.FareInput{
		VehicleType:     testVehicleStandard,
		BookingType:     domain.BookingTypeRide,
		DistanceKm:      1,
		DurationMinutes: 2,
		ScheduledAt:     weekdayAt(14),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Components stay as computed; only the total is clamped.
	assertMoney(t, "subtotal", breakdown.Subtotal, 7.60)
	assertMoney(t, "total before tax", breakdown.TotalBeforeTax, 12.00)
	assertMoney(t, "tax", breakdown.Tax, 2.52)
	assertMoney(t, "total", breakdown.Total, 14.52)
	assertMoney(t, "minimum", breakdown.Minimum, 12.00)

	if !breakdown.MinimumApplied {
		t.Error("expected minimum fare to be reported as applied")
	}
}

func TestFare_RushHourSurcharge(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, []*domain.SurchargeRule{rushHourRule(3)}, nil)

	breakdown, err := service.CalculateFare(snapshot, service.FareInput{
		VehicleType:     testVehicleStandard,
		BookingType:     domain.BookingTypeRide,
		DistanceKm:      3,
		DurationMinutes: 10,
		ScheduledAt:     weekdayAt(8),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(breakdown.Surcharges) != 1 {
		t.Fatalf("expected 1 surcharge, got %d", len(breakdown.Surcharges))
	}
	if breakdown.Surcharges[0].Name != domain.SurchargeRushHour {
		t.Errorf("expected rush hour surcharge, got %s", breakdown.Surcharges[0].Name)
	}
	assertMoney(t, "surcharge amount", breakdown.Surcharges[0].Amount, 3.00)
	assertMoney(t, "total before tax", breakdown.TotalBeforeTax, 17.00)
	assertMoney(t, "tax", breakdown.Tax, 3.57)
	assertMoney(t, "total", breakdown.Total, 20.57)
}

func TestFare_HourlyBooking(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, nil, nil)

	breakdown, err := service.CalculateFare(snapshot, service.FareInput{
		VehicleType: testVehicleStandard,
		BookingType: domain.BookingTypeHourly,
		HourlyHours: 3,
		ScheduledAt: weekdayAt(14),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Hourly bookings bill by committed duration, never by distance.
	assertMoney(t, "distance price", breakdown.DistancePrice, 0)
	assertMoney(t, "time price", breakdown.TimePrice, 135.00)
	assertMoney(t, "subtotal", breakdown.Subtotal, 140.00)
	assertMoney(t, "tax", breakdown.Tax, 29.40)
	assertMoney(t, "total", breakdown.Total, 169.40)
}

func TestFare_Deterministic(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, []*domain.SurchargeRule{rushHourRule(3), stopoverRule(2.5)}, nil)

	input := service.FareInput{
		VehicleType:     testVehicleStandard,
		BookingType:     domain.BookingTypeRide,
		DistanceKm:      12.7,
		DurationMinutes: 33,
		StopoverCount:   3,
		ScheduledAt:     weekdayAt(8),
	}

	first, err := service.CalculateFare(snapshot, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	second, err := service.CalculateFare(snapshot, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical breakdowns, got %+v vs %+v", first, second)
	}
}

func TestFare_TotalEquation(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, []*domain.SurchargeRule{rushHourRule(3), nightRule(0), stopoverRule(2.5)}, nil)

	inputs := []service.FareInput{
		{VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide, DistanceKm: 3, DurationMinutes: 10, ScheduledAt: weekdayAt(14)},
		{VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide, DistanceKm: 25.3, DurationMinutes: 47, StopoverCount: 4, ScheduledAt: weekdayAt(8)},
		{VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide, DistanceKm: 8.1, DurationMinutes: 19, ScheduledAt: weekdayAt(23)},
		{VehicleType: testVehicleStandard, BookingType: domain.BookingTypeHourly, HourlyHours: 4, ScheduledAt: weekdayAt(10)},
	}

	for _, input := range inputs {
		breakdown, err := service.CalculateFare(snapshot, input)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		assertMoney(t, "total equation", breakdown.Total, breakdown.TotalBeforeTax+breakdown.Tax)

		var surchargeSum float64
		for _, line := range breakdown.Surcharges {
			surchargeSum += line.Amount
		}
		if !breakdown.MinimumApplied {
			assertMoney(t, "pre-tax equation", breakdown.TotalBeforeTax, breakdown.Subtotal+surchargeSum)
		}
	}
}

func TestFare_UnknownVehicleType(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, nil, nil)

	_, err := service.CalculateFare(snapshot, service.FareInput{
		VehicleType:     "hovercraft",
		BookingType:     domain.BookingTypeRide,
		DistanceKm:      3,
		DurationMinutes: 10,
		ScheduledAt:     weekdayAt(14),
	})
	if !errors.Is(err, service.ErrUnknownVehicleType) {
		t.Errorf("expected ErrUnknownVehicleType, got: %v", err)
	}
}

func TestFare_InvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input service.FareInput
	}{
		{
			name: "negative distance",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide,
				DistanceKm: -1, DurationMinutes: 10, ScheduledAt: weekdayAt(14),
			},
		},
		{
			name: "negative duration",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide,
				DistanceKm: 3, DurationMinutes: -10, ScheduledAt: weekdayAt(14),
			},
		},
		{
			name: "negative stopover count",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide,
				DistanceKm: 3, DurationMinutes: 10, StopoverCount: -1, ScheduledAt: weekdayAt(14),
			},
		},
		{
			name: "missing scheduled time",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingTypeRide,
				DistanceKm: 3, DurationMinutes: 10,
			},
		},
		{
			name: "missing vehicle type",
			input: service.FareInput{
				BookingType: domain.BookingTypeRide,
				DistanceKm:  3, DurationMinutes: 10, ScheduledAt: weekdayAt(14),
			},
		},
		{
			name: "hourly booking without hours",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingTypeHourly,
				ScheduledAt: weekdayAt(14),
			},
		},
		{
			name: "unknown booking type",
			input: service.FareInput{
				VehicleType: testVehicleStandard, BookingType: domain.BookingType("CHARTER"),
				DistanceKm: 3, DurationMinutes: 10, ScheduledAt: weekdayAt(14),
			},
		},
	}

	snapshot := newTestSnapshot(t, nil, nil)

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.CalculateFare(snapshot, tc.input)
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got: %v", err)
			}
		})
	}
}

func TestFare_RoundMoney(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13}, // exact binary half rounds up
		{0.375, 0.38},
		{1.0, 1.0},
		{2.999, 3.00},
		{3.14159, 3.14},
		{12.344, 12.34},
		{12.346, 12.35},
	}

	for _, tc := range testCases {
		if got := service.RoundMoney(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("RoundMoney(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestFare_ValidateBookingType(t *testing.T) {
	t.Parallel()

	bt, err := service.ValidateBookingType("")
	if err != nil || bt != domain.BookingTypeRide {
		t.Errorf("expected empty booking type to default to RIDE, got %s (%v)", bt, err)
	}

	bt, err = service.ValidateBookingType("HOURLY")
	if err != nil || bt != domain.BookingTypeHourly {
		t.Errorf("expected HOURLY, got %s (%v)", bt, err)
	}

	if _, err := service.ValidateBookingType("CHARTER"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestFare_HourlyIgnoresDistance(t *testing.T) {
	t.Parallel()

	snapshot := newTestSnapshot(t, nil, nil)

	input := service.FareInput{
		VehicleType: testVehicleStandard,
		BookingType: domain.BookingTypeHourly,
		HourlyHours: 2,
		ScheduledAt: time.Date(2026, time.September, 2, 11, 30, 0, 0, time.UTC),
	}

	without, err := service.CalculateFare(snapshot, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	input.DistanceKm = 50
	input.DurationMinutes = 90
	with, err := service.CalculateFare(snapshot, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	assertMoney(t, "hourly total", with.Total, without.Total)
	assertMoney(t, "hourly distance price", with.DistancePrice, 0)
}
