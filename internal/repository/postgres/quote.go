package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
)

// QuoteRepository is a PostgreSQL implementation of repository.QuoteRepository.
// The pricing input and breakdown are stored as JSON documents; the
// status and sequence number are columns so superseded results can be
// rejected with a conditional update.
type QuoteRepository struct {
	q Querier
}

// NewQuoteRepository creates a new PostgreSQL quote repository.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{q: db}
}

// Create persists a new quote.
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	query := `
		INSERT INTO quotes (id, status, seq, input, breakdown, error_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	input, err := json.Marshal(quote.Input)
	if err != nil {
		return err
	}

	breakdown, err := marshalBreakdown(quote.Breakdown)
	if err != nil {
		return err
	}

	var errorCode sql.NullString
	if quote.ErrorCode != "" {
		errorCode = sql.NullString{String: quote.ErrorCode, Valid: true}
	}

	_, err = r.q.ExecContext(ctx, query,
		quote.ID,
		quote.Status,
		quote.Seq,
		input,
		breakdown,
		errorCode,
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	return err
}

// GetByID retrieves a quote by ID.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query := `
		SELECT id, status, seq, input, breakdown, error_code, created_at, updated_at
		FROM quotes WHERE id = $1
	`

	var quote domain.Quote
	var input []byte
	var breakdown []byte
	var errorCode sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&quote.ID,
		&quote.Status,
		&quote.Seq,
		&input,
		&breakdown,
		&errorCode,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(input, &quote.Input); err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		quote.Breakdown = &domain.PriceBreakdown{}
		if err := json.Unmarshal(breakdown, quote.Breakdown); err != nil {
			return nil, err
		}
	}
	if errorCode.Valid {
		quote.ErrorCode = errorCode.String
	}

	return &quote, nil
}

// Update updates an existing quote.
func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	query := `
		UPDATE quotes
		SET status = $1, seq = $2, input = $3, breakdown = $4, error_code = $5, updated_at = $6
		WHERE id = $7
	`

	input, err := json.Marshal(quote.Input)
	if err != nil {
		return err
	}

	breakdown, err := marshalBreakdown(quote.Breakdown)
	if err != nil {
		return err
	}

	var errorCode sql.NullString
	if quote.ErrorCode != "" {
		errorCode = sql.NullString{String: quote.ErrorCode, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		quote.Status,
		quote.Seq,
		input,
		breakdown,
		errorCode,
		quote.UpdatedAt,
		quote.ID,
	)
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

// marshalBreakdown marshals a breakdown to JSON, preserving NULL for
// quotes that have not produced a result yet.
func marshalBreakdown(b *domain.PriceBreakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}
