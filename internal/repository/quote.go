package repository

import (
	"context"

	"chauffeur/internal/domain"
)

// QuoteRepository defines the persistence operations for quotes.
type QuoteRepository interface {
	// Create persists a new quote.
	Create(ctx context.Context, quote *domain.Quote) error

	// GetByID retrieves a quote by ID.
	GetByID(ctx context.Context, id string) (*domain.Quote, error)

	// Update updates an existing quote.
	Update(ctx context.Context, quote *domain.Quote) error
}
