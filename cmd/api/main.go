// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/discoverdiani/discovery-platform/internal/ai"
	"github.com/discoverdiani/discovery-platform/internal/analytics"
	"github.com/discoverdiani/discovery-platform/internal/config"
	"github.com/discoverdiani/discovery-platform/internal/handler"
	"github.com/discoverdiani/discovery-platform/internal/middleware"
	"github.com/discoverdiani/discovery-platform/internal/service"
	"github.com/discoverdiani/discovery-platform/internal/store"
	"github.com/discoverdiani/discovery-platform/internal/telemetry"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
	"github.com/discoverdiani/discovery-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "discovery-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Telemetry sinks. Both are optional; search and engagement events
	// are forwarded to whichever are configured.
	var sinks []telemetry.Sink
	var natsSink *telemetry.NATSSink
	if cfg.NATSEnabled {
		natsSink, err = telemetry.ConnectNATS(ctx, telemetry.NATSConfig{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}
	if cfg.CollectorEndpoint != "" {
		sinks = append(sinks, telemetry.NewHTTPSink(cfg.CollectorEndpoint, cfg.CollectorToken))
	}
	fanout := telemetry.NewFanout(log, sinks...)

	// Document store
	st, err := store.Open(cfg.SQLitePath)
	if err != nil {
		log.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Analytics aggregator
	aggregator := analytics.New(analytics.Options{}, fanout, log)
	aggregator.Start(ctx)
	defer aggregator.Stop()

	// AI backends
	grok, err := ai.NewGrokClient(cfg.GrokAPIKey)
	if err != nil {
		log.Error("failed to create Grok client", "error", err)
		os.Exit(1)
	}
	gemini, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Error("failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	whisper, err := ai.NewWhisperClient(cfg.OpenAIAPIKey)
	if err != nil {
		log.Error("failed to create Whisper client", "error", err)
		os.Exit(1)
	}
	gateway := ai.NewGateway(grok, gemini, whisper, cfg.AIRequestTimeout, log)

	// Initialize services
	searchSvc := service.NewSearchService(gateway, aggregator, log)
	directorySvc := service.NewDirectoryService(st, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsSink)
	searchHandler := handler.NewSearchHandler(searchSvc, log)
	analyticsHandler := handler.NewAnalyticsHandler(aggregator, log)
	directoryHandler := handler.NewDirectoryHandler(directorySvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ClientID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Search (anonymous, tighter rate limit)
		r.Route("/search", func(r chi.Router) {
			r.Use(middleware.SearchRateLimit(cfg.SearchRateRequests, cfg.SearchRateWindow))
			r.Post("/text", searchHandler.Text)
			r.Post("/image", searchHandler.Image)
			r.Post("/voice", searchHandler.Voice)
		})

		// Engagement events (anonymous)
		r.Post("/events", analyticsHandler.TrackEvent)

		// Business listings (reads are public)
		r.Get("/businesses", directoryHandler.ListBusinesses)
		r.Get("/businesses/{id}", directoryHandler.GetBusiness)
		r.Get("/businesses/{id}/reviews", directoryHandler.ListReviews)

		// Analytics dashboard
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/metrics", analyticsHandler.Metrics)
			r.Get("/report", analyticsHandler.Report)
			r.Get("/stream", analyticsHandler.Stream)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Post("/businesses", directoryHandler.CreateBusiness)
			r.Put("/businesses/{id}", directoryHandler.UpdateBusiness)
			r.Post("/businesses/{id}/reviews", directoryHandler.CreateReview)

			r.Post("/bookings", directoryHandler.CreateBooking)
			r.Get("/bookings", directoryHandler.ListBookings)
			r.Patch("/bookings/{id}/status", directoryHandler.UpdateBookingStatus)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", directoryHandler.GetProfile)
				r.Post("/", directoryHandler.CreateProfile)
				r.Put("/favorites/{businessID}", directoryHandler.AddFavorite)
				r.Delete("/favorites/{businessID}", directoryHandler.RemoveFavorite)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
