package postgres

import (
	"context"
	"database/sql"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
)

// SurchargeRuleRepository is a PostgreSQL implementation of repository.SurchargeRuleRepository.
type SurchargeRuleRepository struct {
	q Querier
}

// NewSurchargeRuleRepository creates a new PostgreSQL surcharge rule repository.
func NewSurchargeRuleRepository(db *sql.DB) *SurchargeRuleRepository {
	return &SurchargeRuleRepository{q: db}
}

// GetAll retrieves all surcharge rules, enabled or not.
func (r *SurchargeRuleRepository) GetAll(ctx context.Context) ([]*domain.SurchargeRule, error) {
	query := `SELECT id, name, kind, amount, enabled FROM price_rules ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.SurchargeRule
	for rows.Next() {
		var rule domain.SurchargeRule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Kind, &rule.Amount, &rule.Enabled); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

// Upsert creates or replaces a surcharge rule.
func (r *SurchargeRuleRepository) Upsert(ctx context.Context, rule *domain.SurchargeRule) error {
	query := `
		INSERT INTO price_rules (id, name, kind, amount, enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, kind = $3, amount = $4, enabled = $5
	`

	_, err := r.q.ExecContext(ctx, query, rule.ID, rule.Name, rule.Kind, rule.Amount, rule.Enabled)
	return err
}

// Delete removes a surcharge rule by ID.
func (r *SurchargeRuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM price_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AirportZoneRepository is a PostgreSQL implementation of repository.AirportZoneRepository.
type AirportZoneRepository struct {
	q Querier
}

// NewAirportZoneRepository creates a new PostgreSQL airport zone repository.
func NewAirportZoneRepository(db *sql.DB) *AirportZoneRepository {
	return &AirportZoneRepository{q: db}
}

// GetAll retrieves all configured airport zones.
func (r *AirportZoneRepository) GetAll(ctx context.Context) ([]*domain.AirportZone, error) {
	query := `SELECT id, name, lat, lng, radius_km FROM airport_zones ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*domain.AirportZone
	for rows.Next() {
		var zone domain.AirportZone
		if err := rows.Scan(&zone.ID, &zone.Name, &zone.Lat, &zone.Lng, &zone.RadiusKm); err != nil {
			return nil, err
		}
		zones = append(zones, &zone)
	}
	return zones, rows.Err()
}

// Upsert creates or replaces an airport zone.
func (r *AirportZoneRepository) Upsert(ctx context.Context, zone *domain.AirportZone) error {
	query := `
		INSERT INTO airport_zones (id, name, lat, lng, radius_km)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, lat = $3, lng = $4, radius_km = $5
	`

	_, err := r.q.ExecContext(ctx, query, zone.ID, zone.Name, zone.Lat, zone.Lng, zone.RadiusKm)
	return err
}

// Delete removes an airport zone by ID.
func (r *AirportZoneRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM airport_zones WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
