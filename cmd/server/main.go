package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casedesk/casedesk/internal/app/config"
	"github.com/casedesk/casedesk/internal/app/server"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	log = logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	if db.IsSQLite() {
		// the local SQLite file has no separate migrate step
		if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
			log.Error("Failed to migrate local database", "error", err)
			os.Exit(1)
		}
	}

	serviceManager, err := appservices.NewServiceManager(cfg, db, log)
	if err != nil {
		log.Error("Failed to initialize service manager", "error", err)
		db.Close()
		os.Exit(1)
	}
	defer serviceManager.Close()

	// Create server
	srv := server.New(cfg, serviceManager, log)

	// Start server in goroutine
	go func() {
		log.Info("Starting CaseDesk server", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server shutdown complete")
}
