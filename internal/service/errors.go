package service

import "errors"

var (
	// ErrUnknownVehicleType is returned when no rate card is configured
	// for the requested vehicle type. Pricing must block rather than
	// fall back to a default card.
	ErrUnknownVehicleType = errors.New("unknown vehicle type")

	// ErrInvalidInput is returned for negative distance, duration, or
	// stopover count, a missing scheduled time, or an invalid booking
	// type.
	ErrInvalidInput = errors.New("invalid pricing input")

	// ErrConfiguration is returned when the surcharge rule set or rate
	// card configuration is malformed. Rejected at load time, never
	// during a calculation.
	ErrConfiguration = errors.New("pricing configuration invalid")

	// ErrEstimateUnavailable is returned when the route estimate lookup
	// fails. Retryable; the caller is expected to debounce and retry.
	ErrEstimateUnavailable = errors.New("route estimate unavailable")

	// ErrInvalidQuoteID is returned when quote ID is empty.
	ErrInvalidQuoteID = errors.New("invalid quote id")

	// ErrQuoteNotReady is returned when capturing a payment for a quote
	// that has no applied price.
	ErrQuoteNotReady = errors.New("quote has no applied price")

	// ErrTotalMismatch is returned when a client-supplied total does not
	// match the server-derived total.
	ErrTotalMismatch = errors.New("client total does not match derived total")

	// ErrCaptureInProgress is returned when another capture for the same
	// quote holds the capture lock.
	ErrCaptureInProgress = errors.New("payment capture already in progress")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")
)
