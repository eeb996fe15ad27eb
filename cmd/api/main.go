package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/internal/archive"
	"orderdesk/internal/auth"
	"orderdesk/internal/config"
	"orderdesk/internal/database"
	"orderdesk/internal/handler"
	"orderdesk/internal/notify"
	"orderdesk/internal/repository"
	"orderdesk/internal/router"
	"orderdesk/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting orderdesk API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply schema migrations
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	notifRepo := repository.NewNotificationRepository(pool, logger)
	cartRepo := repository.NewSavedCartRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize notification channels
	whatsappSender := notify.NewWhatsAppSender(cfg.WhatsApp, logger)
	sheetsExporter := notify.NewSheetsExporter(cfg.Google, logger)
	dispatcher := notify.NewDispatcher(whatsappSender, sheetsExporter, logger)

	// Initialize upload archiver with S3 and noop fallback
	var archiver archive.Archiver
	if cfg.S3.Enabled {
		s3Archiver, err := archive.NewS3Archiver(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archiver, uploads will not be archived")
			archiver = archive.NewNoopArchiver(logger)
		} else {
			archiver = s3Archiver
		}
	} else {
		archiver = archive.NewNoopArchiver(logger)
	}

	// Initialize token issuer and services
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	authService := service.NewAuthService(userRepo, issuer, logger)
	catalogService := service.NewCatalogService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, notifRepo, dispatcher, logger)
	cartService := service.NewCartService(cartRepo, logger)

	// Ensure the default admin account exists
	if err := authService.SeedAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	productHandler := handler.NewProductHandler(catalogService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	adminHandler := handler.NewAdminHandler(catalogService, orderService, authService, archiver, whatsappSender, logger)

	// Initialize router
	mux := router.New(authHandler, productHandler, orderHandler, cartHandler, adminHandler, issuer, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
