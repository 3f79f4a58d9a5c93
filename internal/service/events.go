package service

import (
	"log"

	"chauffeur/internal/domain"
)

// EventType identifies a pricing lifecycle event.
type EventType string

const (
	EventQuotePriced     EventType = "QUOTE_PRICED"
	EventQuoteFailed     EventType = "QUOTE_FAILED"
	EventPaymentCaptured EventType = "PAYMENT_CAPTURED"
	EventPaymentFailed   EventType = "PAYMENT_FAILED"
)

// EventService emits pricing lifecycle events. In a real deployment
// this would publish to the notification pipeline (push, email);
// here events are logged, which is also where non-retryable
// configuration defects surface.
type EventService struct{}

// NewEventService creates a new EventService.
func NewEventService() *EventService {
	return &EventService{}
}

// QuotePriced records a successfully applied calculation.
func (s *EventService) QuotePriced(quote *domain.Quote) {
	log.Printf("[%s] quote=%s seq=%d total=%.2f %s estimated_only=%t",
		EventQuotePriced, quote.ID, quote.Seq, quote.Breakdown.Total, quote.Breakdown.Currency, quote.Breakdown.EstimatedOnly)
}

// QuoteFailed records a failed calculation.
func (s *EventService) QuoteFailed(quote *domain.Quote, err error) {
	log.Printf("[%s] quote=%s seq=%d code=%s err=%v",
		EventQuoteFailed, quote.ID, quote.Seq, quote.ErrorCode, err)
}

// PaymentCaptured records a successful charge.
func (s *EventService) PaymentCaptured(payment *domain.Payment) {
	log.Printf("[%s] payment=%s quote=%s amount=%.2f %s",
		EventPaymentCaptured, payment.ID, payment.QuoteID, payment.Amount, payment.Currency)
}

// PaymentFailed records a failed charge.
func (s *EventService) PaymentFailed(payment *domain.Payment) {
	log.Printf("[%s] payment=%s quote=%s amount=%.2f %s",
		EventPaymentFailed, payment.ID, payment.QuoteID, payment.Amount, payment.Currency)
}
