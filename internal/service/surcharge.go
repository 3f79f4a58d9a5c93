package service

import (
	"fmt"
	"math"
	"time"

	"chauffeur/internal/domain"
)

// SurchargeContext is the input a surcharge rule predicate sees.
type SurchargeContext struct {
	ScheduledAt   time.Time
	Pickup        domain.Location
	Destination   domain.Location
	StopoverCount int
}

// RuleSet is the compiled, validated surcharge rule set. Rules are
// evaluated in a fixed declaration order (rush hour, night, airport,
// stopovers) so the resulting surcharge list is deterministic for
// identical inputs. Each rule fires at most once per calculation; the
// rush-hour and night windows are disjoint by construction.
type RuleSet struct {
	rushHour *domain.SurchargeRule
	night    *domain.SurchargeRule
	airport  *domain.SurchargeRule
	stopover *domain.SurchargeRule

	zones        []*domain.AirportZone
	maxStopovers int
}

// NewRuleSet validates rule definitions and compiles them. Unknown
// names, negative amounts, out-of-range percentages, and duplicate
// rules are rejected here so Applicable can never fail on a
// well-formed context.
func NewRuleSet(rules []*domain.SurchargeRule, zones []*domain.AirportZone, maxStopovers int) (*RuleSet, error) {
	if maxStopovers < 1 {
		return nil, fmt.Errorf("%w: max stopover count must be at least 1", ErrConfiguration)
	}

	rs := &RuleSet{maxStopovers: maxStopovers}

	for _, rule := range rules {
		if err := validateSurchargeRule(rule); err != nil {
			return nil, err
		}
		if !rule.Enabled {
			continue
		}

		var slot **domain.SurchargeRule
		switch rule.Name {
		case domain.SurchargeRushHour:
			slot = &rs.rushHour
		case domain.SurchargeNightTime:
			slot = &rs.night
		case domain.SurchargeAirportPickup:
			slot = &rs.airport
		case domain.SurchargeStopover:
			slot = &rs.stopover
		}
		if *slot != nil {
			return nil, fmt.Errorf("%w: duplicate surcharge rule %q", ErrConfiguration, rule.Name)
		}
		*slot = rule
	}

	for _, zone := range zones {
		if err := validateAirportZone(zone); err != nil {
			return nil, err
		}
		rs.zones = append(rs.zones, zone)
	}

	return rs, nil
}

func validateSurchargeRule(rule *domain.SurchargeRule) error {
	switch rule.Name {
	case domain.SurchargeRushHour, domain.SurchargeNightTime, domain.SurchargeAirportPickup, domain.SurchargeStopover:
	default:
		return fmt.Errorf("%w: unknown surcharge rule %q", ErrConfiguration, rule.Name)
	}

	switch rule.Kind {
	case domain.SurchargeKindFixed:
		if rule.Amount < 0 {
			return fmt.Errorf("%w: surcharge %q has a negative amount", ErrConfiguration, rule.Name)
		}
	case domain.SurchargeKindPercentage:
		if rule.Amount < 0 || rule.Amount > 1 {
			return fmt.Errorf("%w: surcharge %q percentage out of range", ErrConfiguration, rule.Name)
		}
	default:
		return fmt.Errorf("%w: surcharge %q has unknown kind %q", ErrConfiguration, rule.Name, rule.Kind)
	}

	if rule.Name == domain.SurchargeStopover && rule.Kind != domain.SurchargeKindFixed {
		return fmt.Errorf("%w: stopover surcharge must be a fixed per-stop fee", ErrConfiguration)
	}

	return nil
}

func validateAirportZone(zone *domain.AirportZone) error {
	switch {
	case zone.Name == "":
		return fmt.Errorf("%w: airport zone missing name", ErrConfiguration)
	case zone.RadiusKm <= 0:
		return fmt.Errorf("%w: airport zone %q radius must be positive", ErrConfiguration, zone.Name)
	}
	return nil
}

// Applicable evaluates every rule against the context and returns the
// fired surcharge lines in declaration order. Percentage rules are
// resolved against the pre-surcharge subtotal, so multiple percentage
// rules never compound on each other. The night amount comes from the
// rate card when the configured rule defers to it (amount 0).
func (rs *RuleSet) Applicable(sc SurchargeContext, subtotal float64, rate *domain.RateCard) []domain.SurchargeLine {
	var lines []domain.SurchargeLine

	if rs.rushHour != nil && isRushHour(sc.ScheduledAt) {
		lines = append(lines, rs.line(rs.rushHour, "Rush hour surcharge", subtotal, rs.rushHour.Amount))
	}

	if rs.night != nil && isNight(sc.ScheduledAt) {
		amount := rs.night.Amount
		if rs.night.Kind == domain.SurchargeKindFixed && amount == 0 {
			amount = rate.NightSurcharge
		}
		lines = append(lines, rs.line(rs.night, "Night surcharge", subtotal, amount))
	}

	if rs.airport != nil {
		if zone := rs.matchAirport(sc.Pickup); zone != nil {
			desc := fmt.Sprintf("Airport pickup (%s)", zone.Name)
			lines = append(lines, rs.line(rs.airport, desc, subtotal, rs.airport.Amount))
		}
	}

	if rs.stopover != nil {
		stops := sc.StopoverCount
		if stops > rs.maxStopovers {
			stops = rs.maxStopovers
		}
		// The first stopover is included in the base fare.
		for i := 1; i < stops; i++ {
			desc := fmt.Sprintf("Stopover %d", i+1)
			lines = append(lines, rs.line(rs.stopover, desc, subtotal, rs.stopover.Amount))
		}
	}

	return lines
}

// line builds a surcharge line, resolving percentages into money
// amounts against the subtotal.
func (rs *RuleSet) line(rule *domain.SurchargeRule, desc string, subtotal, amount float64) domain.SurchargeLine {
	value := amount
	if rule.Kind == domain.SurchargeKindPercentage {
		value = subtotal * amount
	}
	return domain.SurchargeLine{
		Name:        rule.Name,
		Description: desc,
		Amount:      RoundMoney(value),
		Kind:        rule.Kind,
	}
}

// matchAirport returns the first configured zone containing the pickup
// point, or nil.
func (rs *RuleSet) matchAirport(pickup domain.Location) *domain.AirportZone {
	if pickup.IsZero() {
		return nil
	}
	for _, zone := range rs.zones {
		if haversineKm(pickup.Lat, pickup.Lng, zone.Lat, zone.Lng) <= zone.RadiusKm {
			return zone
		}
	}
	return nil
}

// isRushHour reports whether t falls in the weekday rush windows
// 07:00-09:00 and 17:00-19:00. Weekends never count.
func isRushHour(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 9) || (h >= 17 && h < 19)
}

// isNight reports whether t falls in the night window 22:00-07:00.
// Disjoint from the rush-hour windows, so the two surcharges are
// mutually exclusive for any single time.
func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h <= 6
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometers between
// two points in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
