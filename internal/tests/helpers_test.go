package tests

import (
	"context"
	"testing"
	"time"

	"chauffeur/internal/domain"
	"chauffeur/internal/service"
)

const (
	testVehicleStandard = "standard"
	testTaxRate         = 0.21
	testMaxStopovers    = 5
	testCurrency        = "EUR"
)

// standardRateCard returns the rate card used across the pricing
// tests: base €5, €2/km, €0.30/min, €45/h, €5 night, €12 minimum.
func standardRateCard() *domain.RateCard {
	return &domain.RateCard{
		VehicleType:    testVehicleStandard,
		BasePrice:      5.00,
		PerKmRate:      2.00,
		PerMinuteRate:  0.30,
		PerHourRate:    45.00,
		NightSurcharge: 5.00,
		MinimumFare:    12.00,
		Currency:       "EUR",
	}
}

func rushHourRule(amount float64) *domain.SurchargeRule {
	return &domain.SurchargeRule{
		ID:      "rule-rush",
		Name:    domain.SurchargeRushHour,
		Kind:    domain.SurchargeKindFixed,
		Amount:  amount,
		Enabled: true,
	}
}

func nightRule(amount float64) *domain.SurchargeRule {
	return &domain.SurchargeRule{
		ID:      "rule-night",
		Name:    domain.SurchargeNightTime,
		Kind:    domain.SurchargeKindFixed,
		Amount:  amount,
		Enabled: true,
	}
}

func airportRule(amount float64) *domain.SurchargeRule {
	return &domain.SurchargeRule{
		ID:      "rule-airport",
		Name:    domain.SurchargeAirportPickup,
		Kind:    domain.SurchargeKindFixed,
		Amount:  amount,
		Enabled: true,
	}
}

func stopoverRule(amount float64) *domain.SurchargeRule {
	return &domain.SurchargeRule{
		ID:      "rule-stopover",
		Name:    domain.SurchargeStopover,
		Kind:    domain.SurchargeKindFixed,
		Amount:  amount,
		Enabled: true,
	}
}

func schipholZone() *domain.AirportZone {
	return &domain.AirportZone{
		ID:       "zone-ams",
		Name:     "Schiphol",
		Lat:      52.3105,
		Lng:      4.7683,
		RadiusKm: 5,
	}
}

// weekdayAt returns a Wednesday at the given hour (UTC).
func weekdayAt(hour int) time.Time {
	return time.Date(2026, time.September, 2, hour, 0, 0, 0, time.UTC)
}

// saturdayAt returns a Saturday at the given hour (UTC).
func saturdayAt(hour int) time.Time {
	return time.Date(2026, time.September, 5, hour, 0, 0, 0, time.UTC)
}

// newTestConfigService builds a ConfigService over mock repositories
// with the snapshot already loaded.
func newTestConfigService(t *testing.T, cards []*domain.RateCard, rules []*domain.SurchargeRule, zones []*domain.AirportZone) (*service.ConfigService, *MockRateCardRepository) {
	t.Helper()

	rateRepo := NewMockRateCardRepository()
	for _, c := range cards {
		rateRepo.AddRateCard(c)
	}
	ruleRepo := NewMockSurchargeRuleRepository()
	for _, r := range rules {
		ruleRepo.AddRule(r)
	}
	zoneRepo := NewMockAirportZoneRepository()
	for _, z := range zones {
		zoneRepo.AddZone(z)
	}

	cfg := service.NewConfigService(rateRepo, ruleRepo, zoneRepo, nil, testMaxStopovers, testTaxRate, testCurrency)
	if err := cfg.Reload(context.Background()); err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	return cfg, rateRepo
}

// newTestSnapshot builds a validated snapshot directly, for tests that
// price without a config service.
func newTestSnapshot(t *testing.T, rules []*domain.SurchargeRule, zones []*domain.AirportZone) *service.Snapshot {
	t.Helper()

	snapshot, err := service.NewSnapshot(
		[]*domain.RateCard{standardRateCard()},
		rules, zones, testMaxStopovers, testTaxRate, testCurrency,
	)
	if err != nil {
		t.Fatalf("failed to build test snapshot: %v", err)
	}
	return snapshot
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.001
}

func assertMoney(t *testing.T, label string, got, want float64) {
	t.Helper()
	if !almostEqual(got, want) {
		t.Errorf("%s: expected %.2f, got %.2f", label, want, got)
	}
}
