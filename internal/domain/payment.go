package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment represents a captured charge for a quoted booking. Amount is
// always the server-derived total, never a client-supplied value.
type Payment struct {
	ID             string
	QuoteID        string
	Amount         float64
	Currency       string
	Status         PaymentStatus
	IdempotencyKey string
	CreatedAt      time.Time
}
