package repository

import (
	"context"

	"chauffeur/internal/domain"
)

// SurchargeRuleRepository defines the persistence operations for
// surcharge rules (the admin-editable price_rules records).
type SurchargeRuleRepository interface {
	// GetAll retrieves all surcharge rules, enabled or not.
	GetAll(ctx context.Context) ([]*domain.SurchargeRule, error)

	// Upsert creates or replaces a surcharge rule.
	Upsert(ctx context.Context, rule *domain.SurchargeRule) error

	// Delete removes a surcharge rule by ID.
	Delete(ctx context.Context, id string) error
}

// AirportZoneRepository defines the persistence operations for airport
// pickup geofences.
type AirportZoneRepository interface {
	// GetAll retrieves all configured airport zones.
	GetAll(ctx context.Context) ([]*domain.AirportZone, error)

	// Upsert creates or replaces an airport zone.
	Upsert(ctx context.Context, zone *domain.AirportZone) error

	// Delete removes an airport zone by ID.
	Delete(ctx context.Context, id string) error
}
