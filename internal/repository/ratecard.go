package repository

import (
	"context"

	"chauffeur/internal/domain"
)

// RateCardRepository defines the persistence operations for rate cards.
type RateCardRepository interface {
	// GetByVehicleType retrieves the rate card for a vehicle type.
	GetByVehicleType(ctx context.Context, vehicleType string) (*domain.RateCard, error)

	// GetAll retrieves all configured rate cards.
	GetAll(ctx context.Context) ([]*domain.RateCard, error)

	// Upsert creates or replaces the rate card for its vehicle type.
	Upsert(ctx context.Context, card *domain.RateCard) error

	// Delete removes the rate card for a vehicle type.
	Delete(ctx context.Context, vehicleType string) error
}
