// Package main provides the main entry point for the ZapForm form relay service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zapform/zapform/app/handlers"
	"github.com/zapform/zapform/app/router"
	"github.com/zapform/zapform/app/services"
	businessflow "github.com/zapform/zapform/business_flow"
	"github.com/zapform/zapform/config"
	"github.com/zapform/zapform/models"
	"github.com/zapform/zapform/repository"
)

// Application represents the main application structure
type Application struct {
	router        router.Router
	config        *config.ProductionConfig
	server        *fiber.App
	metricsServer *http.Server
}

func main() {
	log.Println("Starting ZapForm application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start metrics server in goroutine
	if app.metricsServer != nil {
		go func() {
			log.Printf("Metrics server starting on %s", app.metricsServer.Addr)
			if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during metrics server shutdown: %v", err)
		}
	}

	log.Println("Server stopped")
}

// setupLogging configures the process logger, optionally with file rotation
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
}

// initializeDatabase opens the credential store with connection pooling.
// Postgres is used when DATABASE_URL is set; otherwise a local SQLite
// file keeps single-node deployments dependency free.
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.URL != "" {
		dialector = postgres.Open(cfg.URL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeNotificationService picks the SMTP provider when configured
// and falls back to the mock provider for local development
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	if cfg.Email.Host == "" {
		log.Println("SMTP not configured, using mock email provider")
		return services.NewNotificationService(services.NewMockEmailProvider())
	}

	provider := services.NewSMTPEmailProvider(services.EmailConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		Timeout:   cfg.Email.Timeout,
	})
	return services.NewNotificationService(provider)
}

// initializeMetricsServer builds the Prometheus scrape endpoint
func initializeMetricsServer(cfg config.MetricsConfig) *http.Server {
	if !cfg.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	notificationService := initializeNotificationService(cfg)
	whatsappService := services.NewWhatsAppService(services.WhatsAppConfig{
		BaseURL:    cfg.WhatsApp.BaseURL,
		APIVersion: cfg.WhatsApp.APIVersion,
		Timeout:    cfg.WhatsApp.Timeout,
	})

	// Initialize flows
	registrationFlow := businessflow.NewRegistrationFlow(accountRepo, auditRepo, notificationService, db)
	submissionFlow := businessflow.NewSubmissionFlow(accountRepo, auditRepo, whatsappService)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(registrationFlow)
	submissionHandler := handlers.NewSubmissionHandler(submissionFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, accountHandler, submissionHandler)

	application := &Application{
		router:        appRouter,
		config:        cfg,
		server:        appRouter.GetApp(),
		metricsServer: initializeMetricsServer(cfg.Metrics),
	}

	return application, nil
}
