package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caremap/medifinder/internal/adapters/database"
	"github.com/caremap/medifinder/internal/adapters/providers/geocoding"
	"github.com/caremap/medifinder/internal/adapters/providers/places"
	"github.com/caremap/medifinder/internal/api/handlers"
	"github.com/caremap/medifinder/internal/api/routes"
	"github.com/caremap/medifinder/internal/application/services"
	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/internal/infrastructure/clients/openai"
	"github.com/caremap/medifinder/internal/infrastructure/clients/postgres"
	"github.com/caremap/medifinder/internal/infrastructure/notifications"
	"github.com/caremap/medifinder/internal/infrastructure/observability"
	"github.com/caremap/medifinder/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize adapters
	providerAdapter := database.NewProviderAdapter(pgClient)
	historyAdapter := database.NewSearchHistoryAdapter(pgClient)

	// Initialize external providers
	if cfg.Maps.APIKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY is not set; external search and geocoding will fail")
	}
	geocoder := geocoding.NewGoogleGeocoder(cfg.Maps.APIKey, cfg.Maps.DefaultCountry)
	placeSearcher := places.NewGooglePlacesSearcher(cfg.Maps.APIKey, places.NewFormatter(nil))

	var summarizer providers.FacilitySummarizer
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; facility feedback summaries disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			summarizer = openaiClient
		}
	}

	var smsSender providers.SMSSender
	if !cfg.SMS.Configured() {
		log.Warn().Msg("Twilio credentials are not set; SMS sending disabled")
	} else {
		sender, err := notifications.NewTwilioSMSSender(&cfg.SMS)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Twilio client")
		} else {
			smsSender = sender
		}
	}

	// Initialize services
	searchService := services.NewSearchService(
		geocoder,
		placeSearcher,
		providerAdapter,
		historyAdapter,
		cfg.Maps.APIKey,
	)
	historyService := services.NewHistoryService(historyAdapter, searchService)
	notificationService := services.NewNotificationService(smsSender)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	providerHandler := handlers.NewProviderHandler(providerAdapter)
	feedbackHandler := handlers.NewFeedbackHandler(summarizer)
	smsHandler := handlers.NewSMSHandler(notificationService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		providerHandler,
		feedbackHandler,
		smsHandler,
		historyHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
