package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chauffeur/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CapturePaymentRequest is the HTTP request body for capturing a payment.
// ExpectedTotal is the total the client displayed; the server derives
// the charged amount independently and rejects a mismatch.
type CapturePaymentRequest struct {
	QuoteID       string  `json:"quote_id"`
	ExpectedTotal float64 `json:"expected_total,omitempty"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID             string  `json:"id"`
	QuoteID        string  `json:"quote_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// CapturePayment handles POST /v1/payments
func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	var req CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.QuoteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quote_id is required"})
		return
	}

	payment, err := h.paymentService.CapturePayment(c.Request.Context(), service.CapturePaymentRequest{
		QuoteID:       req.QuoteID,
		ExpectedTotal: req.ExpectedTotal,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, PaymentResponse{
		ID:             payment.ID,
		QuoteID:        payment.QuoteID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         string(payment.Status),
		IdempotencyKey: payment.IdempotencyKey,
	})
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PaymentResponse{
		ID:             payment.ID,
		QuoteID:        payment.QuoteID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         string(payment.Status),
		IdempotencyKey: payment.IdempotencyKey,
	})
}
