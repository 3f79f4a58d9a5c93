package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
	"chauffeur/internal/service"
)

// ──────────────────────────────────────────────
// 3. QUOTE LIFECYCLE
// ──────────────────────────────────────────────

func newTestCalculator(t *testing.T) *service.FareCalculator {
	t.Helper()
	cfg, _ := newTestConfigService(t,
		[]*domain.RateCard{standardRateCard()},
		[]*domain.SurchargeRule{rushHourRule(3)},
		nil,
	)
	return service.NewFareCalculator(cfg)
}

func rideRequest() service.QuoteRequest {
	return service.QuoteRequest{
		VehicleType: testVehicleStandard,
		BookingType: domain.BookingTypeRide,
		ScheduledAt: weekdayAt(14),
		Pickup:      domain.Location{Lat: 52.37, Lng: 4.89},
		Destination: domain.Location{Lat: 52.31, Lng: 4.77},
	}
}

func TestQuote_CreateReady(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	estimates := NewMockEstimateSource(3, 10)
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), estimates, nil)

	quote, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if quote.Status != domain.QuoteStatusReady {
		t.Fatalf("expected status READY, got %s", quote.Status)
	}
	if quote.Seq != 1 {
		t.Errorf("expected seq 1, got %d", quote.Seq)
	}
	if quote.Breakdown == nil {
		t.Fatal("expected a price breakdown")
	}
	assertMoney(t, "total", quote.Breakdown.Total, 16.94)
	if quote.Breakdown.EstimatedOnly {
		t.Error("expected traffic-aware estimate not to be flagged estimate-only")
	}

	stored := quoteRepo.GetQuote(quote.ID)
	if stored == nil || stored.Status != domain.QuoteStatusReady {
		t.Error("expected the READY quote to be persisted")
	}
}

func TestQuote_ClientEstimateIsEstimateOnly(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	estimates := NewMockEstimateSource(3, 10)
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), estimates, nil)

	distance, duration := 3.0, 10.0
	req := rideRequest()
	req.DistanceKm = &distance
	req.DurationMinutes = &duration

	quote, err := quoteService.CreateQuote(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !quote.Breakdown.EstimatedOnly {
		t.Error("expected a client-provided estimate to be flagged estimate-only")
	}
	if atomic.LoadInt32(&estimates.CallCount) != 0 {
		t.Error("expected the estimate source not to be consulted")
	}
}

func TestQuote_UnknownVehicleTypeFails(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), NewMockEstimateSource(3, 10), nil)

	req := rideRequest()
	req.VehicleType = "hovercraft"

	quote, err := quoteService.CreateQuote(context.Background(), req)
	if !errors.Is(err, service.ErrUnknownVehicleType) {
		t.Fatalf("expected ErrUnknownVehicleType, got: %v", err)
	}

	if quote.Status != domain.QuoteStatusFailed {
		t.Errorf("expected status FAILED, got %s", quote.Status)
	}
	if quote.ErrorCode != "UNKNOWN_VEHICLE_TYPE" {
		t.Errorf("expected error code UNKNOWN_VEHICLE_TYPE, got %s", quote.ErrorCode)
	}
	if quote.Breakdown != nil {
		t.Error("expected a failed quote to carry no price")
	}
}

func TestQuote_EstimateUnavailableFails(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	estimates := NewMockEstimateSource(0, 0)
	estimates.EstimateError = errors.New("directions backend down")
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), estimates, nil)

	quote, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if !errors.Is(err, service.ErrEstimateUnavailable) {
		t.Fatalf("expected ErrEstimateUnavailable, got: %v", err)
	}
	if quote.ErrorCode != "ESTIMATE_UNAVAILABLE" {
		t.Errorf("expected error code ESTIMATE_UNAVAILABLE, got %s", quote.ErrorCode)
	}
}

func TestQuote_NoEstimateSourceFails(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), nil, nil)

	_, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if !errors.Is(err, service.ErrEstimateUnavailable) {
		t.Errorf("expected ErrEstimateUnavailable, got: %v", err)
	}
}

func TestQuote_HourlySkipsEstimate(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	// No estimate source configured: hourly bookings must not need one.
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), nil, nil)

	req := rideRequest()
	req.BookingType = domain.BookingTypeHourly
	req.HourlyHours = 3

	quote, err := quoteService.CreateQuote(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if quote.Status != domain.QuoteStatusReady {
		t.Fatalf("expected status READY, got %s", quote.Status)
	}
	assertMoney(t, "hourly distance price", quote.Breakdown.DistancePrice, 0)
	assertMoney(t, "hourly time price", quote.Breakdown.TimePrice, 135.00)
}

func TestQuote_RecalculateUnknownQuote(t *testing.T) {
	t.Parallel()

	quoteService := service.NewQuoteService(NewMockQuoteRepository(), newTestCalculator(t), NewMockEstimateSource(3, 10), nil)

	_, err := quoteService.Recalculate(context.Background(), "no-such-quote", rideRequest())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestQuote_RecalculateBumpsSeq(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), NewMockEstimateSource(3, 10), nil)

	quote, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	req := rideRequest()
	req.StopoverCount = 1
	updated, err := quoteService.Recalculate(context.Background(), quote.ID, req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Seq != 2 {
		t.Errorf("expected seq 2 after recalculation, got %d", updated.Seq)
	}
}

func TestQuote_SeqMonotonicAcrossCompletions(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), NewMockEstimateSource(3, 10), nil)

	quote, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Each completed calculation must hand the next trigger a strictly
	// higher number, even though the in-flight bookkeeping for the
	// quote is dropped once a result lands.
	last := quote.Seq
	for i := 0; i < 3; i++ {
		updated, err := quoteService.Recalculate(context.Background(), quote.ID, rideRequest())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if updated.Seq <= last {
			t.Fatalf("expected seq above %d, got %d", last, updated.Seq)
		}
		last = updated.Seq
	}
	if last != 4 {
		t.Errorf("expected seq 4 after three recalculations, got %d", last)
	}
}

func TestQuote_LastWriterWins(t *testing.T) {
	t.Parallel()

	quoteRepo := NewMockQuoteRepository()
	estimates := NewMockEstimateSource(3, 10)

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	estimates.EstimateFunc = func(call int32) (*domain.RouteEstimate, error) {
		switch call {
		case 1: // initial quote
			return &domain.RouteEstimate{DistanceKm: 3, DurationMinutes: 10, TrafficAware: true}, nil
		case 2: // stale trigger, held until after the fresh one lands
			close(slowStarted)
			<-slowRelease
			return &domain.RouteEstimate{DistanceKm: 3, DurationMinutes: 10, TrafficAware: true}, nil
		default: // fresh trigger: a longer route
			return &domain.RouteEstimate{DistanceKm: 6, DurationMinutes: 20, TrafficAware: true}, nil
		}
	}

	quoteService := service.NewQuoteService(quoteRepo, newTestCalculator(t), estimates, nil)

	quote, err := quoteService.CreateQuote(context.Background(), rideRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	staleDone := make(chan *domain.Quote, 1)
	go func() {
		stale, _ := quoteService.Recalculate(context.Background(), quote.ID, rideRequest())
		staleDone <- stale
	}()

	// Let the stale calculation claim its sequence number and block.
	<-slowStarted

	fresh, err := quoteService.Recalculate(context.Background(), quote.ID, rideRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	assertMoney(t, "fresh total", fresh.Breakdown.Total, 27.83) // 5 + 12 + 6 = 23 +21% VAT

	// Release the stale calculation: its result must be discarded.
	close(slowRelease)
	stale := <-staleDone
	if stale == nil || stale.Breakdown == nil {
		t.Fatal("expected the superseded trigger to return the stored quote")
	}
	assertMoney(t, "superseded trigger returns latest", stale.Breakdown.Total, 27.83)

	stored := quoteRepo.GetQuote(quote.ID)
	if stored.Seq != 3 {
		t.Errorf("expected stored seq 3, got %d", stored.Seq)
	}
	assertMoney(t, "stored total", stored.Breakdown.Total, 27.83)
}
