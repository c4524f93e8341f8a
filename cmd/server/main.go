package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/rentorahq/rentora-backend/internal/config"
	"github.com/rentorahq/rentora-backend/internal/database"
	"github.com/rentorahq/rentora-backend/internal/handlers"
	"github.com/rentorahq/rentora-backend/internal/logging"
	"github.com/rentorahq/rentora-backend/internal/middleware"
	"github.com/rentorahq/rentora-backend/internal/routes"
	"github.com/rentorahq/rentora-backend/internal/scheduler"
	"github.com/rentorahq/rentora-backend/internal/services"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.StorageSecret == "" {
		slog.Error("STORAGE_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Document storage
	store := storage.New(cfg.StorageDir, cfg.StorageSecret, cfg.SignedURLTTL, cfg.PublicBaseURL)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	propertyService := services.NewPropertyService(database.DB)
	verificationService := services.NewVerificationService(database.DB, store, cfg.MaxDocumentMB)
	depositService := services.NewDepositService(database.DB)
	paymentService := services.NewPaymentService(database.DB)
	leaseService := services.NewLeaseService(database.DB, store, depositService, paymentService)
	inquiryService := services.NewInquiryService(database.DB, services.NewContentFilter())
	settingsService := services.NewSettingsService(database.DB)

	if err := settingsService.SeedDefaults(); err != nil {
		slog.Error("settings seed failed", "error", err)
	}

	// Handlers
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(),
		Property:     handlers.NewPropertyHandler(propertyService, store),
		Verification: handlers.NewVerificationHandler(verificationService),
		Lease:        handlers.NewLeaseHandler(leaseService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Deposit:      handlers.NewDepositHandler(depositService),
		Inquiry:      handlers.NewInquiryHandler(inquiryService),
		Files:        handlers.NewFilesHandler(store),
		Legal:        handlers.NewLegalHandler(),
		Admin:        handlers.NewAdminHandler(database.DB, paymentService, leaseService, settingsService),
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, h)

	// Nightly sweeps
	sched := scheduler.New(paymentService, leaseService)
	if err := sched.Start(cfg.OverdueSweepSpec); err != nil {
		slog.Error("scheduler start failed", "spec", cfg.OverdueSweepSpec, "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sched.Stop()
	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
