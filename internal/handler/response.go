package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chauffeur/internal/repository"
	"chauffeur/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuoteID),
		errors.Is(err, service.ErrInvalidPaymentID):
		return http.StatusBadRequest

	// Missing rate card: a configuration defect, not a client error
	case errors.Is(err, service.ErrUnknownVehicleType):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrQuoteNotReady),
		errors.Is(err, service.ErrTotalMismatch),
		errors.Is(err, service.ErrCaptureInProgress):
		return http.StatusConflict

	// Retryable: the route lookup failed
	case errors.Is(err, service.ErrEstimateUnavailable):
		return http.StatusServiceUnavailable

	// Non-retryable deployment defect
	case errors.Is(err, service.ErrConfiguration):
		return http.StatusInternalServerError

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
