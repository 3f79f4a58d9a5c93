package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chauffeur/internal/handler"
	"chauffeur/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	QuoteHandler   *handler.QuoteHandler
	AdminHandler   *handler.AdminHandler
	PaymentHandler *handler.PaymentHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Quote routes.
		quotes := v1.Group("/quotes")
		{
			quotes.POST("", deps.QuoteHandler.CreateQuote)
			quotes.GET("/:id", deps.QuoteHandler.GetQuote)
			quotes.POST("/:id/recalculate", deps.QuoteHandler.RecalculateQuote)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.CapturePayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}

		// Admin pricing settings routes.
		admin := v1.Group("/admin")
		{
			admin.GET("/rates", deps.AdminHandler.GetRateCards)
			admin.PUT("/rates/:vehicleType", deps.AdminHandler.PutRateCard)
			admin.DELETE("/rates/:vehicleType", deps.AdminHandler.DeleteRateCard)

			admin.GET("/surcharges", deps.AdminHandler.GetSurchargeRules)
			admin.PUT("/surcharges/:id", deps.AdminHandler.PutSurchargeRule)
			admin.DELETE("/surcharges/:id", deps.AdminHandler.DeleteSurchargeRule)

			admin.GET("/airports", deps.AdminHandler.GetAirportZones)
			admin.PUT("/airports/:id", deps.AdminHandler.PutAirportZone)
			admin.DELETE("/airports/:id", deps.AdminHandler.DeleteAirportZone)
		}
	}

	return router
}
