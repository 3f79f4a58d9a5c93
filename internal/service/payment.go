package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"chauffeur/internal/domain"
	"chauffeur/internal/redis"
	"chauffeur/internal/repository"
)

// PSP is the interface for a Payment Service Provider.
type PSP interface {
	Charge(ctx context.Context, amount float64, currency string) (bool, error)
}

// MockPSP is a mock implementation of PSP for testing and local runs.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// Charge simulates a payment charge. Always succeeds.
func (p *MockPSP) Charge(ctx context.Context, amount float64, currency string) (bool, error) {
	return true, nil
}

// captureLockTTL bounds how long a crashed capture can hold the lock.
const captureLockTTL = 30 * time.Second

// PaymentService captures payments for quoted bookings. The charged
// amount is always re-derived server-side from the quote's stored
// input; a client-held total is only ever used as a consistency
// check.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	quoteRepo   repository.QuoteRepository
	calculator  *FareCalculator
	locks       redis.LockStoreInterface
	psp         PSP
	events      *EventService
}

// NewPaymentService creates a new PaymentService. locks may be nil in
// single-instance deployments.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	quoteRepo repository.QuoteRepository,
	calculator *FareCalculator,
	locks redis.LockStoreInterface,
	psp PSP,
	events *EventService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		quoteRepo:   quoteRepo,
		calculator:  calculator,
		locks:       locks,
		psp:         psp,
		events:      events,
	}
}

// CapturePaymentRequest contains the parameters for capturing a payment.
// ExpectedTotal is the total the client displayed; zero skips the
// consistency check.
type CapturePaymentRequest struct {
	QuoteID       string
	ExpectedTotal float64
}

// CapturePayment charges the server-derived total for a quote, with
// idempotency support: capturing the same quote twice returns the
// existing payment.
func (s *PaymentService) CapturePayment(ctx context.Context, req CapturePaymentRequest) (*domain.Payment, error) {
	if req.QuoteID == "" {
		return nil, ErrInvalidQuoteID
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireCaptureLock(ctx, req.QuoteID, captureLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCaptureInProgress
		}
		defer func() {
			_ = s.locks.ReleaseCaptureLock(ctx, req.QuoteID)
		}()
	}

	idempotencyKey := fmt.Sprintf("capture:%s", req.QuoteID)

	existing, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	quote, err := s.quoteRepo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusReady || quote.Breakdown == nil {
		return nil, ErrQuoteNotReady
	}

	// Re-derive the total from the stored input against the current
	// configuration. If the config changed since the quote was shown,
	// the totals diverge and the client must re-quote.
	derived, err := s.calculator.Calculate(QuoteInputToFareInput(quote.Input))
	if err != nil {
		return nil, err
	}
	if !sameAmount(derived.Total, quote.Breakdown.Total) {
		return nil, fmt.Errorf("%w: quoted %.2f, derived %.2f", ErrTotalMismatch, quote.Breakdown.Total, derived.Total)
	}
	if req.ExpectedTotal != 0 && !sameAmount(derived.Total, req.ExpectedTotal) {
		return nil, fmt.Errorf("%w: client sent %.2f, derived %.2f", ErrTotalMismatch, req.ExpectedTotal, derived.Total)
	}

	payment := &domain.Payment{
		ID:             uuid.New().String(),
		QuoteID:        quote.ID,
		Amount:         derived.Total,
		Currency:       derived.Currency,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	success, err := s.psp.Charge(ctx, payment.Amount, payment.Currency)
	if err != nil || !success {
		_ = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed)
		payment.Status = domain.PaymentStatusFailed
		if s.events != nil {
			s.events.PaymentFailed(payment)
		}
		return payment, nil
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusSuccess); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusSuccess

	if s.events != nil {
		s.events.PaymentCaptured(payment)
	}
	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// sameAmount compares two money values to the cent.
func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
