package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chauffeur/internal/domain"
	"chauffeur/internal/service"
)

// QuoteHandler handles HTTP requests for quotes.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// LocationPayload is a pickup/destination/waypoint location in a request.
type LocationPayload struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// QuoteRequest is the HTTP request body for creating or recalculating a quote.
type QuoteRequest struct {
	VehicleType     string            `json:"vehicle_type"`
	BookingType     string            `json:"booking_type,omitempty"` // RIDE (default) or HOURLY
	ScheduledAt     time.Time         `json:"scheduled_at"`
	StopoverCount   int               `json:"stopover_count,omitempty"`
	HourlyHours     float64           `json:"hourly_hours,omitempty"`
	Pickup          LocationPayload   `json:"pickup"`
	Destination     LocationPayload   `json:"destination"`
	Waypoints       []LocationPayload `json:"waypoints,omitempty"`
	DistanceKm      *float64          `json:"distance_km,omitempty"`
	DurationMinutes *float64          `json:"duration_minutes,omitempty"`
}

// QuoteResponse is the HTTP response for quote operations.
type QuoteResponse struct {
	ID        string                 `json:"id"`
	Status    string                 `json:"status"`
	Seq       int64                  `json:"seq"`
	Breakdown *domain.PriceBreakdown `json:"breakdown,omitempty"`
	ErrorCode string                 `json:"error_code,omitempty"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
}

// CreateQuote handles POST /v1/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	serviceReq, err := toServiceRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toQuoteResponse(quote))
}

// RecalculateQuote handles POST /v1/quotes/:id/recalculate
func (h *QuoteHandler) RecalculateQuote(c *gin.Context) {
	quoteID := c.Param("id")

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	serviceReq, err := toServiceRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quote, err := h.quoteService.Recalculate(c.Request.Context(), quoteID, serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

// GetQuote handles GET /v1/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

func toServiceRequest(req QuoteRequest) (service.QuoteRequest, error) {
	bookingType, err := service.ValidateBookingType(req.BookingType)
	if err != nil {
		return service.QuoteRequest{}, err
	}

	serviceReq := service.QuoteRequest{
		VehicleType:     req.VehicleType,
		BookingType:     bookingType,
		ScheduledAt:     req.ScheduledAt,
		StopoverCount:   req.StopoverCount,
		HourlyHours:     req.HourlyHours,
		Pickup:          toLocation(req.Pickup),
		Destination:     toLocation(req.Destination),
		DistanceKm:      req.DistanceKm,
		DurationMinutes: req.DurationMinutes,
	}
	for _, wp := range req.Waypoints {
		serviceReq.Waypoints = append(serviceReq.Waypoints, toLocation(wp))
	}
	return serviceReq, nil
}

func toLocation(p LocationPayload) domain.Location {
	return domain.Location{Lat: p.Lat, Lng: p.Lng, Address: p.Address}
}

func toQuoteResponse(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        quote.ID,
		Status:    string(quote.Status),
		Seq:       quote.Seq,
		Breakdown: quote.Breakdown,
		ErrorCode: quote.ErrorCode,
		CreatedAt: quote.CreatedAt.Format(time.RFC3339),
		UpdatedAt: quote.UpdatedAt.Format(time.RFC3339),
	}
}
