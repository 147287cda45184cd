// Package main initializes and starts the secure QR scanning HTTP server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/secureqr/secureqr/internal/config"
	"github.com/secureqr/secureqr/internal/db"
	"github.com/secureqr/secureqr/internal/qr"
	"github.com/secureqr/secureqr/internal/repository"
	"github.com/secureqr/secureqr/internal/safebrowsing"
	"github.com/secureqr/secureqr/internal/server/handler/http"
	"github.com/secureqr/secureqr/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// defaultJWTSecret is used only when no secret is configured. Deployments
// must override it.
const defaultJWTSecret = "default-secret-key-change-in-production"

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	secret := options.JWTSecret
	if secret == "" {
		secret = defaultJWTSecret
		logger.Warn("JWT secret not configured, using insecure default")
	}
	if options.SafeBrowsingKey == "" {
		logger.Warn("Safe Browsing key not configured, scans will be classified as trusted")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		logger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge history records older than the retention window.
	db.StartHistoryCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		90*24*time.Hour, // retention: 90 days
		logger,
	)

	// Initialize repositories for users and scan history.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	historyRepo := repository.NewPostgresHistoryRepository(postgresDB)

	// Initialize business-logic services and external collaborators.
	tokenService := service.NewTokenService([]byte(secret), options.TokenTTL)
	authService := service.NewAuthService(userRepo)
	classifier := safebrowsing.NewClient(options.SafeBrowsingKey)
	scanService := service.NewScanService(classifier, historyRepo, qr.NewDecoder(), logger)
	historyService := service.NewHistoryService(historyRepo)

	// Create HTTP handlers for auth, scan, and history endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Tokens: tokenService}
	scanHandler := &http.ScanHandler{ScanService: scanService}
	historyHandler := &http.HistoryHandler{HistoryService: historyService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, scanHandler, historyHandler, tokenService, logger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	logger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
