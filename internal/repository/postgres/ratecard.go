package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
)

// RateCardRepository is a PostgreSQL implementation of repository.RateCardRepository.
type RateCardRepository struct {
	q Querier
}

// NewRateCardRepository creates a new PostgreSQL rate card repository.
func NewRateCardRepository(db *sql.DB) *RateCardRepository {
	return &RateCardRepository{q: db}
}

// NewRateCardRepositoryWithTx creates a rate card repository using a transaction.
func NewRateCardRepositoryWithTx(tx *sql.Tx) *RateCardRepository {
	return &RateCardRepository{q: tx}
}

const rateCardColumns = `vehicle_type, base_price, per_km_rate, per_minute_rate, per_hour_rate, night_surcharge, minimum_fare, currency`

// GetByVehicleType retrieves the rate card for a vehicle type.
func (r *RateCardRepository) GetByVehicleType(ctx context.Context, vehicleType string) (*domain.RateCard, error) {
	query := `SELECT ` + rateCardColumns + ` FROM rate_cards WHERE vehicle_type = $1`

	var card domain.RateCard
	err := r.q.QueryRowContext(ctx, query, vehicleType).Scan(
		&card.VehicleType,
		&card.BasePrice,
		&card.PerKmRate,
		&card.PerMinuteRate,
		&card.PerHourRate,
		&card.NightSurcharge,
		&card.MinimumFare,
		&card.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &card, nil
}

// GetAll retrieves all configured rate cards.
func (r *RateCardRepository) GetAll(ctx context.Context) ([]*domain.RateCard, error) {
	query := `SELECT ` + rateCardColumns + ` FROM rate_cards ORDER BY vehicle_type`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.RateCard
	for rows.Next() {
		var card domain.RateCard
		if err := rows.Scan(
			&card.VehicleType,
			&card.BasePrice,
			&card.PerKmRate,
			&card.PerMinuteRate,
			&card.PerHourRate,
			&card.NightSurcharge,
			&card.MinimumFare,
			&card.Currency,
		); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
	}
	return cards, rows.Err()
}

// Upsert creates or replaces the rate card for its vehicle type.
func (r *RateCardRepository) Upsert(ctx context.Context, card *domain.RateCard) error {
	query := `
		INSERT INTO rate_cards (vehicle_type, base_price, per_km_rate, per_minute_rate, per_hour_rate, night_surcharge, minimum_fare, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vehicle_type) DO UPDATE
		SET base_price = $2, per_km_rate = $3, per_minute_rate = $4, per_hour_rate = $5, night_surcharge = $6, minimum_fare = $7, currency = $8
	`

	_, err := r.q.ExecContext(ctx, query,
		card.VehicleType,
		card.BasePrice,
		card.PerKmRate,
		card.PerMinuteRate,
		card.PerHourRate,
		card.NightSurcharge,
		card.MinimumFare,
		card.Currency,
	)

	return err
}

// Delete removes the rate card for a vehicle type.
func (r *RateCardRepository) Delete(ctx context.Context, vehicleType string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM rate_cards WHERE vehicle_type = $1`, vehicleType)
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
