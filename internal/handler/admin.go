package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chauffeur/internal/domain"
	"chauffeur/internal/service"
)

// AdminHandler handles the pricing settings console endpoints: rate
// cards, surcharge rules, and airport zones. Every write refreshes the
// pricing snapshot, so edits take effect atomically.
type AdminHandler struct {
	configService *service.ConfigService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(configService *service.ConfigService) *AdminHandler {
	return &AdminHandler{configService: configService}
}

// RateCardPayload is the request/response body for rate cards.
type RateCardPayload struct {
	VehicleType    string  `json:"vehicle_type"`
	BasePrice      float64 `json:"base_price"`
	PerKmRate      float64 `json:"per_km_rate"`
	PerMinuteRate  float64 `json:"per_minute_rate"`
	PerHourRate    float64 `json:"per_hour_rate"`
	NightSurcharge float64 `json:"night_surcharge"`
	MinimumFare    float64 `json:"minimum_fare"`
	Currency       string  `json:"currency,omitempty"`
}

// SurchargeRulePayload is the request/response body for surcharge rules.
type SurchargeRulePayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Amount  float64 `json:"amount"`
	Enabled bool    `json:"enabled"`
}

// AirportZonePayload is the request/response body for airport zones.
type AirportZonePayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

// GetRateCards handles GET /v1/admin/rates
func (h *AdminHandler) GetRateCards(c *gin.Context) {
	cards, err := h.configService.RateCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RateCardPayload, 0, len(cards))
	for _, card := range cards {
		response = append(response, RateCardPayload{
			VehicleType:    card.VehicleType,
			BasePrice:      card.BasePrice,
			PerKmRate:      card.PerKmRate,
			PerMinuteRate:  card.PerMinuteRate,
			PerHourRate:    card.PerHourRate,
			NightSurcharge: card.NightSurcharge,
			MinimumFare:    card.MinimumFare,
			Currency:       card.Currency,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// PutRateCard handles PUT /v1/admin/rates/:vehicleType
func (h *AdminHandler) PutRateCard(c *gin.Context) {
	var req RateCardPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	card := &domain.RateCard{
		VehicleType:    c.Param("vehicleType"),
		BasePrice:      req.BasePrice,
		PerKmRate:      req.PerKmRate,
		PerMinuteRate:  req.PerMinuteRate,
		PerHourRate:    req.PerHourRate,
		NightSurcharge: req.NightSurcharge,
		MinimumFare:    req.MinimumFare,
		Currency:       req.Currency,
	}

	if err := h.configService.UpsertRateCard(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteRateCard handles DELETE /v1/admin/rates/:vehicleType
func (h *AdminHandler) DeleteRateCard(c *gin.Context) {
	if err := h.configService.DeleteRateCard(c.Request.Context(), c.Param("vehicleType")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSurchargeRules handles GET /v1/admin/surcharges
func (h *AdminHandler) GetSurchargeRules(c *gin.Context) {
	rules, err := h.configService.SurchargeRules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SurchargeRulePayload, 0, len(rules))
	for _, rule := range rules {
		response = append(response, SurchargeRulePayload{
			ID:      rule.ID,
			Name:    string(rule.Name),
			Kind:    string(rule.Kind),
			Amount:  rule.Amount,
			Enabled: rule.Enabled,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// PutSurchargeRule handles PUT /v1/admin/surcharges/:id
func (h *AdminHandler) PutSurchargeRule(c *gin.Context) {
	var req SurchargeRulePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule := &domain.SurchargeRule{
		ID:      c.Param("id"),
		Name:    domain.SurchargeName(req.Name),
		Kind:    domain.SurchargeKind(req.Kind),
		Amount:  req.Amount,
		Enabled: req.Enabled,
	}

	if err := h.configService.UpsertSurchargeRule(c.Request.Context(), rule); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteSurchargeRule handles DELETE /v1/admin/surcharges/:id
func (h *AdminHandler) DeleteSurchargeRule(c *gin.Context) {
	if err := h.configService.DeleteSurchargeRule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAirportZones handles GET /v1/admin/airports
func (h *AdminHandler) GetAirportZones(c *gin.Context) {
	zones, err := h.configService.AirportZones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AirportZonePayload, 0, len(zones))
	for _, zone := range zones {
		response = append(response, AirportZonePayload{
			ID:       zone.ID,
			Name:     zone.Name,
			Lat:      zone.Lat,
			Lng:      zone.Lng,
			RadiusKm: zone.RadiusKm,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// PutAirportZone handles PUT /v1/admin/airports/:id
func (h *AdminHandler) PutAirportZone(c *gin.Context) {
	var req AirportZonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	zone := &domain.AirportZone{
		ID:       c.Param("id"),
		Name:     req.Name,
		Lat:      req.Lat,
		Lng:      req.Lng,
		RadiusKm: req.RadiusKm,
	}

	if err := h.configService.UpsertAirportZone(c.Request.Context(), zone); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAirportZone handles DELETE /v1/admin/airports/:id
func (h *AdminHandler) DeleteAirportZone(c *gin.Context) {
	if err := h.configService.DeleteAirportZone(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
