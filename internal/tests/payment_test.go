package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"chauffeur/internal/domain"
	"chauffeur/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENT CAPTURE
// ──────────────────────────────────────────────

type paymentFixture struct {
	config      *service.ConfigService
	quoteRepo   *MockQuoteRepository
	paymentRepo *MockPaymentRepository
	locks       *MockLockStore
	psp         *MockPSP
	payments    *service.PaymentService
	quote       *domain.Quote
}

// newPaymentFixture creates a READY quote (3km, 10min, weekday 14:00,
// total €16.94) and a payment service around it.
func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	cfg, _ := newTestConfigService(t,
		[]*domain.RateCard{standardRateCard()},
		[]*domain.SurchargeRule{rushHourRule(3)},
		nil,
	)
	calculator := service.NewFareCalculator(cfg)

	quoteRepo := NewMockQuoteRepository()
	quoteService := service.NewQuoteService(quoteRepo, calculator, nil, nil)

	distance, duration := 3.0, 10.0
	req := rideRequest()
	req.DistanceKm = &distance
	req.DurationMinutes = &duration

	quote, err := quoteService.CreateQuote(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to create fixture quote: %v", err)
	}

	paymentRepo := NewMockPaymentRepository()
	locks := NewMockLockStore()
	psp := NewMockPSP()

	return &paymentFixture{
		config:      cfg,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		locks:       locks,
		psp:         psp,
		payments:    service.NewPaymentService(paymentRepo, quoteRepo, calculator, locks, psp, nil),
		quote:       quote,
	}
}

func TestPayment_CaptureSuccess(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	payment, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if payment.Status != domain.PaymentStatusSuccess {
		t.Errorf("expected status SUCCESS, got %s", payment.Status)
	}
	assertMoney(t, "captured amount", payment.Amount, 16.94)
	assertMoney(t, "charged amount", f.psp.LastAmount, 16.94)
	if payment.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", payment.Currency)
	}
	if payment.IdempotencyKey != "capture:"+f.quote.ID {
		t.Errorf("unexpected idempotency key %s", payment.IdempotencyKey)
	}
	if atomic.LoadInt32(&f.locks.ReleaseCallCount) != 1 {
		t.Error("expected the capture lock to be released")
	}
}

func TestPayment_CaptureIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	ctx := context.Background()

	first, err := f.payments.CapturePayment(ctx, service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	second, err := f.payments.CapturePayment(ctx, service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same payment on repeat capture, got %s and %s", first.ID, second.ID)
	}
	if atomic.LoadInt32(&f.psp.ChargeCallCount) != 1 {
		t.Errorf("expected exactly 1 charge, got %d", f.psp.ChargeCallCount)
	}
}

func TestPayment_QuoteNotReady(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	failed := &domain.Quote{ID: "quote-failed", Status: domain.QuoteStatusFailed}
	f.quoteRepo.AddQuote(failed)

	_, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{QuoteID: failed.ID})
	if !errors.Is(err, service.ErrQuoteNotReady) {
		t.Errorf("expected ErrQuoteNotReady, got: %v", err)
	}
}

func TestPayment_ConfigDriftRejected(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	ctx := context.Background()

	// The admin raises the base price after the quote was shown; the
	// server-side re-derivation now disagrees with the stored total.
	card := standardRateCard()
	card.BasePrice = 8
	if err := f.config.UpsertRateCard(ctx, card); err != nil {
		t.Fatalf("failed to update rate card: %v", err)
	}

	_, err := f.payments.CapturePayment(ctx, service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if !errors.Is(err, service.ErrTotalMismatch) {
		t.Errorf("expected ErrTotalMismatch, got: %v", err)
	}
	if atomic.LoadInt32(&f.psp.ChargeCallCount) != 0 {
		t.Error("expected no charge on total mismatch")
	}
}

func TestPayment_ClientTotalChecked(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.payments.CapturePayment(ctx, service.CapturePaymentRequest{QuoteID: f.quote.ID, ExpectedTotal: 10.00})
	if !errors.Is(err, service.ErrTotalMismatch) {
		t.Fatalf("expected ErrTotalMismatch, got: %v", err)
	}

	payment, err := f.payments.CapturePayment(ctx, service.CapturePaymentRequest{QuoteID: f.quote.ID, ExpectedTotal: 16.94})
	if err != nil {
		t.Fatalf("expected matching client total to capture, got: %v", err)
	}
	if payment.Status != domain.PaymentStatusSuccess {
		t.Errorf("expected status SUCCESS, got %s", payment.Status)
	}
}

func TestPayment_ConcurrentCaptureBlocked(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.locks.HoldLock(f.quote.ID)

	_, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if !errors.Is(err, service.ErrCaptureInProgress) {
		t.Errorf("expected ErrCaptureInProgress, got: %v", err)
	}
	if atomic.LoadInt32(&f.psp.ChargeCallCount) != 0 {
		t.Error("expected no charge while another capture holds the lock")
	}
}

func TestPayment_PSPDecline(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.psp.Declined = true

	payment, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if err != nil {
		t.Fatalf("expected a declined charge to return the payment, got: %v", err)
	}
	if payment.Status != domain.PaymentStatusFailed {
		t.Errorf("expected status FAILED, got %s", payment.Status)
	}

	stored, err := f.paymentRepo.GetByID(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("expected the failed payment to be persisted: %v", err)
	}
	if stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected persisted status FAILED, got %s", stored.Status)
	}
}

func TestPayment_EmptyQuoteID(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	_, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{})
	if !errors.Is(err, service.ErrInvalidQuoteID) {
		t.Errorf("expected ErrInvalidQuoteID, got: %v", err)
	}
}

func TestPayment_GetPayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	payment, err := f.payments.CapturePayment(context.Background(), service.CapturePaymentRequest{QuoteID: f.quote.ID})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := f.payments.GetPayment(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.ID != payment.ID {
		t.Errorf("expected payment %s, got %s", payment.ID, got.ID)
	}

	if _, err := f.payments.GetPayment(context.Background(), ""); !errors.Is(err, service.ErrInvalidPaymentID) {
		t.Errorf("expected ErrInvalidPaymentID, got: %v", err)
	}
}
