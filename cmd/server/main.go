package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chauffeur/internal/app"
	"chauffeur/internal/config"
	"chauffeur/internal/handler"
	"chauffeur/internal/maps"
	internalRedis "chauffeur/internal/redis"
	"chauffeur/internal/repository/postgres"
	"chauffeur/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(ctx, db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	configCache := internalRedis.NewConfigCache(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize repositories.
	rateCardRepo := postgres.NewRateCardRepository(db)
	ruleRepo := postgres.NewSurchargeRuleRepository(db)
	zoneRepo := postgres.NewAirportZoneRepository(db)
	quoteRepo := postgres.NewQuoteRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Load the pricing configuration before serving traffic. A process
	// with no valid snapshot cannot price anything, so fail hard here.
	configService := service.NewConfigService(
		rateCardRepo, ruleRepo, zoneRepo, configCache,
		cfg.Pricing.MaxStopovers, cfg.Pricing.TaxRate, cfg.Pricing.Currency,
	)
	if err := configService.Reload(ctx); err != nil {
		log.Fatalf("failed to load pricing configuration: %v", err)
	}
	log.Println("Pricing configuration loaded")

	// Initialize services.
	eventService := service.NewEventService()
	calculator := service.NewFareCalculator(configService)

	var estimates service.EstimateSource
	if cfg.Maps.APIKey != "" {
		estimateService, err := maps.NewEstimateService(cfg.Maps.APIKey, uint64(cfg.Maps.MaxRetries))
		if err != nil {
			log.Fatalf("failed to initialize maps client: %v", err)
		}
		estimates = estimateService
		log.Println("Google Maps route estimation enabled")
	} else {
		log.Println("Google Maps disabled: quotes require client-supplied estimates")
	}

	quoteService := service.NewQuoteService(quoteRepo, calculator, estimates, eventService)
	psp := service.NewMockPSP()
	paymentService := service.NewPaymentService(paymentRepo, quoteRepo, calculator, lockStore, psp, eventService)

	// Initialize handlers.
	quoteHandler := handler.NewQuoteHandler(quoteService)
	adminHandler := handler.NewAdminHandler(configService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		QuoteHandler:   quoteHandler,
		AdminHandler:   adminHandler,
		PaymentHandler: paymentHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
