package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
)

// EstimateSource resolves a route into distance and duration. The
// calculator itself never sees routing-provider types; this is the
// only external dependency of a quote calculation.
type EstimateSource interface {
	Estimate(ctx context.Context, origin, destination domain.Location, waypoints []domain.Location, departAt time.Time) (*domain.RouteEstimate, error)
}

// QuoteRequest carries the booking parameters that trigger a price
// calculation. DistanceKm/DurationMinutes may carry a pre-resolved
// estimate; when absent, the estimate source is consulted.
type QuoteRequest struct {
	VehicleType     string
	BookingType     domain.BookingType
	ScheduledAt     time.Time
	StopoverCount   int
	HourlyHours     float64
	Pickup          domain.Location
	Destination     domain.Location
	Waypoints       []domain.Location
	DistanceKm      *float64
	DurationMinutes *float64
}

// QuoteService coordinates quote recalculation. Every trigger gets a
// monotonically increasing sequence number per quote; only the most
// recently triggered calculation's result is applied, regardless of
// completion order.
type QuoteService struct {
	quoteRepo  repository.QuoteRepository
	calculator *FareCalculator
	estimates  EstimateSource
	events     *EventService

	mu   sync.Mutex
	seqs map[string]int64
}

// NewQuoteService creates a new QuoteService. estimates may be nil, in
// which case requests must carry a pre-resolved estimate.
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	calculator *FareCalculator,
	estimates EstimateSource,
	events *EventService,
) *QuoteService {
	return &QuoteService{
		quoteRepo:  quoteRepo,
		calculator: calculator,
		estimates:  estimates,
		events:     events,
		seqs:       make(map[string]int64),
	}
}

// CreateQuote creates a quote and runs its first calculation. The
// returned quote is FAILED (with the error also returned) when the
// calculation could not produce a price; a quote never silently
// carries a zero price.
func (s *QuoteService) CreateQuote(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	now := time.Now()
	quote := &domain.Quote{
		ID:        uuid.New().String(),
		Status:    domain.QuoteStatusCalculating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	return s.recalculate(ctx, quote.ID, quote.Seq, req)
}

// Recalculate reprices an existing quote. Called on every trigger:
// route change, vehicle change, date/time change, stopover change.
func (s *QuoteService) Recalculate(ctx context.Context, quoteID string, req QuoteRequest) (*domain.Quote, error) {
	if quoteID == "" {
		return nil, ErrInvalidQuoteID
	}
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return s.recalculate(ctx, quoteID, quote.Seq, req)
}

// GetQuote retrieves a quote by ID.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error) {
	if quoteID == "" {
		return nil, ErrInvalidQuoteID
	}
	return s.quoteRepo.GetByID(ctx, quoteID)
}

func (s *QuoteService) recalculate(ctx context.Context, quoteID string, storedSeq int64, req QuoteRequest) (*domain.Quote, error) {
	seq := s.nextSeq(quoteID, storedSeq)

	input, err := s.resolveInput(ctx, req)
	if err != nil {
		return s.applyFailure(ctx, quoteID, seq, err)
	}

	breakdown, err := s.calculator.Calculate(input)
	if err != nil {
		return s.applyFailure(ctx, quoteID, seq, err)
	}

	return s.applyResult(ctx, quoteID, seq, input, breakdown)
}

// resolveInput turns a request into a complete fare input, consulting
// the estimate source when the request does not carry distance and
// duration. Hourly bookings never need a route estimate.
func (s *QuoteService) resolveInput(ctx context.Context, req QuoteRequest) (FareInput, error) {
	input := FareInput{
		VehicleType:   req.VehicleType,
		BookingType:   req.BookingType,
		ScheduledAt:   req.ScheduledAt,
		StopoverCount: req.StopoverCount,
		HourlyHours:   req.HourlyHours,
		Pickup:        req.Pickup,
		Destination:   req.Destination,
	}

	if req.BookingType == domain.BookingTypeHourly {
		return input, nil
	}

	if req.DistanceKm != nil && req.DurationMinutes != nil {
		input.DistanceKm = *req.DistanceKm
		input.DurationMinutes = *req.DurationMinutes
		// A client-provided estimate is never traffic-confirmed.
		input.EstimatedOnly = true
		return input, nil
	}

	if s.estimates == nil {
		return input, fmt.Errorf("%w: no estimate source configured", ErrEstimateUnavailable)
	}

	estimate, err := s.estimates.Estimate(ctx, req.Pickup, req.Destination, req.Waypoints, req.ScheduledAt)
	if err != nil {
		return input, fmt.Errorf("%w: %v", ErrEstimateUnavailable, err)
	}

	input.DistanceKm = estimate.DistanceKm
	input.DurationMinutes = estimate.DurationMinutes
	input.EstimatedOnly = !estimate.TrafficAware
	return input, nil
}

// applyResult persists a successful calculation, unless a newer
// trigger has superseded this one, in which case the result is
// discarded and the latest stored quote is returned.
func (s *QuoteService) applyResult(ctx context.Context, quoteID string, seq int64, input FareInput, breakdown *domain.PriceBreakdown) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if s.seqs[quoteID] != seq {
		// Superseded: discard this result.
		return quote, nil
	}

	quote.Status = domain.QuoteStatusReady
	quote.Seq = seq
	quote.Input = fareInputToQuoteInput(input)
	quote.Breakdown = breakdown
	quote.ErrorCode = ""
	quote.UpdatedAt = time.Now()

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	// This was the newest trigger, so no in-flight calculation holds a
	// higher number; the entry can go. The persisted Seq re-seeds the
	// counter on the next trigger.
	delete(s.seqs, quoteID)

	if s.events != nil {
		s.events.QuotePriced(quote)
	}
	return quote, nil
}

// applyFailure persists a failed calculation under the same sequence
// discipline and propagates the error. A failed quote carries an
// explicit error code, never a zero or stale price presented as fresh.
func (s *QuoteService) applyFailure(ctx context.Context, quoteID string, seq int64, calcErr error) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if s.seqs[quoteID] != seq {
		return quote, nil
	}

	quote.Status = domain.QuoteStatusFailed
	quote.Seq = seq
	quote.Breakdown = nil
	quote.ErrorCode = errorCode(calcErr)
	quote.UpdatedAt = time.Now()

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	delete(s.seqs, quoteID)

	if s.events != nil {
		s.events.QuoteFailed(quote, calcErr)
	}
	return quote, calcErr
}

// nextSeq hands out the next trigger sequence number for a quote. The
// map only holds quotes with a calculation in flight; an absent entry
// is re-seeded from the quote's persisted Seq so numbers stay
// monotonic across the evictions in applyResult/applyFailure.
func (s *QuoteService) nextSeq(quoteID string, storedSeq int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seqs[quoteID]; !ok && storedSeq > 0 {
		s.seqs[quoteID] = storedSeq
	}
	s.seqs[quoteID]++
	return s.seqs[quoteID]
}

func fareInputToQuoteInput(input FareInput) domain.QuoteInput {
	return domain.QuoteInput{
		VehicleType:     input.VehicleType,
		BookingType:     input.BookingType,
		DistanceKm:      input.DistanceKm,
		DurationMinutes: input.DurationMinutes,
		HourlyHours:     input.HourlyHours,
		ScheduledAt:     input.ScheduledAt,
		StopoverCount:   input.StopoverCount,
		Pickup:          input.Pickup,
		Destination:     input.Destination,
		EstimatedOnly:   input.EstimatedOnly,
	}
}

// QuoteInputToFareInput rebuilds a fare input from a persisted quote
// input, for server-side re-derivation at payment capture.
func QuoteInputToFareInput(input domain.QuoteInput) FareInput {
	return FareInput{
		VehicleType:     input.VehicleType,
		BookingType:     input.BookingType,
		DistanceKm:      input.DistanceKm,
		DurationMinutes: input.DurationMinutes,
		HourlyHours:     input.HourlyHours,
		ScheduledAt:     input.ScheduledAt,
		StopoverCount:   input.StopoverCount,
		Pickup:          input.Pickup,
		Destination:     input.Destination,
		EstimatedOnly:   input.EstimatedOnly,
	}
}

// errorCode maps a calculation error to the stable code surfaced to
// the UI's error state.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownVehicleType):
		return "UNKNOWN_VEHICLE_TYPE"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrConfiguration):
		return "CONFIGURATION_ERROR"
	case errors.Is(err, ErrEstimateUnavailable):
		return "ESTIMATE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}
