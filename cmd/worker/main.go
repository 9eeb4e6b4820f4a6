package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/casedesk/casedesk/internal/app/config"
	"github.com/casedesk/casedesk/internal/app/jobs"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/pkg/logger"
)

// The worker runs scheduled maintenance against the same store and query
// cache as the API. Mutations it makes invalidate the shared cache, so API
// readers see them on their next fetch.
func main() {
	// Initialize logger
	log := logger.New()

	log.Info("Starting CaseDesk worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	log = logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	// Initialize database
	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Initialize service manager
	serviceManager, err := appservices.NewServiceManager(cfg, db, log)
	if err != nil {
		log.Error("Failed to initialize service manager", "error", err)
		db.Close()
		os.Exit(1)
	}
	defer serviceManager.Close()

	scheduler := jobs.NewScheduler(log)
	sweep := jobs.OverdueSweep(serviceManager.Payments, log.With("job", jobs.OverdueJobName), nil)
	if err := scheduler.AddJob(jobs.OverdueJobName, cfg.Worker.OverdueCron, sweep); err != nil {
		log.Error("Failed to schedule overdue sweep", "error", err)
		os.Exit(1)
	}

	// catch up immediately rather than waiting for the first slot
	sweep()
	scheduler.Start()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received, waiting for running jobs...")
	<-scheduler.Stop().Done()
	log.Info("Worker stopped")
}
