package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/app/config"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
)

// verify checks a deployment's database, cache and storage before the API
// is pointed at them. It exits non-zero when a required check fails.
func main() {
	fmt.Println("Verifying CaseDesk deployment...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetDatabaseURL() == "" {
		log.Fatalf("DATABASE_URL not set")
	}
	fmt.Printf("Connecting to: %s\n", maskDatabaseURL(cfg.GetDatabaseURL()))

	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := false
	check := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("FAIL %s: %v\n", name, err)
			return
		}
		fmt.Printf("ok   %s\n", name)
	}

	check("database ping", db.Ping(ctx))

	if !db.IsSQLite() {
		var version string
		check("postgres version", db.Raw("SELECT version()").Scan(&version).Error)

		for _, ext := range []string{"uuid-ossp", "pg_trgm"} {
			var exists bool
			err := db.Raw("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = ?)", ext).Scan(&exists).Error
			if err == nil && !exists {
				err = fmt.Errorf("not installed, run CREATE EXTENSION IF NOT EXISTS \"%s\"", ext)
			}
			check("extension "+ext, err)
		}

		var authSchema bool
		err := db.Raw("SELECT EXISTS(SELECT 1 FROM information_schema.schemata WHERE schema_name = 'auth')").Scan(&authSchema).Error
		if err == nil && !authSchema {
			err = fmt.Errorf("auth schema missing, is this a Supabase database?")
		}
		check("supabase auth schema", err)
	}

	var missing []string
	for _, model := range models.GetAllModels() {
		if !db.Migrator().HasTable(model) {
			missing = append(missing, fmt.Sprintf("%T", model))
		}
	}
	if len(missing) > 0 {
		check("tables", fmt.Errorf("missing %s, run: go run cmd/migrate/main.go up", strings.Join(missing, ", ")))
	} else {
		check("tables", nil)
	}

	sm, err := appservices.NewServiceManager(cfg, db, logger.NewWithLevel(logger.ParseLevel("error")))
	if err != nil {
		db.Close()
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer sm.Close()

	check("cache ping", sm.CacheService.Ping(ctx))
	check("storage round trip", storageRoundTrip(ctx, sm.Storage))

	if failed {
		fmt.Println("\nVerification failed")
		os.Exit(1)
	}
	fmt.Println("\nVerification complete")
}

// storageRoundTrip writes, signs and removes a probe object
func storageRoundTrip(ctx context.Context, storage services.StorageService) error {
	probe := "casedesk verify probe"
	path, err := storage.Store(ctx, services.StorageParams{
		Folder:      "_verify",
		FileReader:  strings.NewReader(probe),
		Filename:    "probe.txt",
		ContentType: "text/plain",
		Size:        int64(len(probe)),
	})
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer storage.Delete(ctx, path)

	if _, err := storage.GeneratePresignedURL(ctx, path, time.Minute); err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	return nil
}

// maskDatabaseURL hides the password in a database URL
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
