package main

import (
	"fmt"
	"log"
	"os"

	"github.com/casedesk/casedesk/internal/app/config"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	// Initialize logger
	logger := logger.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		runMigrations(db, logger)
	case "reset":
		resetDatabase(db, logger)
	case "seed":
		seedDatabase(db, logger)
	case "status":
		migrationStatus(db, logger)
	default:
		logger.Error("Unknown command", "command", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  up     - Create or update all tables")
	fmt.Println("  reset  - Drop all tables and recreate them")
	fmt.Println("  seed   - Seed the catalog and task categories")
	fmt.Println("  status - Show which tables exist")
}

func runMigrations(db *database.DB, logger *logger.Logger) {
	logger.Info("Running database migrations...")

	// Auto-migrate all models
	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return
	}

	// Create indexes for better performance
	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		return
	}

	logger.Info("Database migrations completed successfully")
}

func resetDatabase(db *database.DB, logger *logger.Logger) {
	logger.Info("Resetting database...")

	// Drop children before parents
	all := models.GetAllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			logger.Error("Failed to drop table", "table", tableName(all[i]), "error", err)
		}
	}

	// Recreate all tables
	runMigrations(db, logger)

	logger.Info("Database reset completed")
}

func seedDatabase(db *database.DB, logger *logger.Logger) {
	logger.Info("Seeding database with initial data...")

	catalog := map[string][]models.Service{
		"Company Formation": {
			{Name: "Commercial Registration", Description: "New CR issuance with the Ministry of Commerce", BasePrice: decimal.RequireFromString("3500.00")},
			{Name: "Articles of Association", Description: "Drafting and notarisation of the AoA", BasePrice: decimal.RequireFromString("2500.00")},
		},
		"Licensing": {
			{Name: "Municipality License", Description: "Baladiya shop or office license", BasePrice: decimal.RequireFromString("1800.00")},
			{Name: "Investment License", Description: "Foreign investment license", BasePrice: decimal.RequireFromString("6000.00")},
		},
		"Tax and Compliance": {
			{Name: "VAT Registration", Description: "ZATCA VAT registration", BasePrice: decimal.RequireFromString("1200.00")},
			{Name: "GOSI Registration", Description: "Social insurance employer registration", BasePrice: decimal.RequireFromString("900.00")},
		},
	}

	for categoryName, services := range catalog {
		category := models.ServiceCategory{Name: categoryName}
		if err := db.Where(models.ServiceCategory{Name: categoryName}).FirstOrCreate(&category).Error; err != nil {
			logger.Error("Failed to create service category", "name", categoryName, "error", err)
			continue
		}
		for _, service := range services {
			service.CategoryID = &category.ID
			if err := db.Where(models.Service{Name: service.Name}).FirstOrCreate(&service).Error; err != nil {
				logger.Error("Failed to create service", "name", service.Name, "error", err)
			}
		}
	}

	documentTypes := []models.DocumentType{
		{Name: "Commercial Registration Certificate"},
		{Name: "National ID or Iqama"},
		{Name: "Articles of Association"},
		{Name: "Lease Contract"},
		{Name: "VAT Certificate"},
		{Name: "Bank Letter"},
	}
	for _, docType := range documentTypes {
		if err := db.Where(models.DocumentType{Name: docType.Name}).FirstOrCreate(&docType).Error; err != nil {
			logger.Error("Failed to create document type", "name", docType.Name, "error", err)
		}
	}

	taskCategories := []models.TaskCategory{
		{Name: "Government Liaison", Description: "Visits and submissions to ministries"},
		{Name: "Documentation", Description: "Collecting and reviewing client documents"},
		{Name: "Finance", Description: "Invoicing and payment follow-up"},
	}
	for _, category := range taskCategories {
		if err := db.Where(models.TaskCategory{Name: category.Name}).FirstOrCreate(&category).Error; err != nil {
			logger.Error("Failed to create task category", "name", category.Name, "error", err)
		}
	}

	logger.Info("Database seeding completed")
}

func migrationStatus(db *database.DB, logger *logger.Logger) {
	logger.Info("Checking migration status...")

	for _, model := range models.GetAllModels() {
		status := "exists"
		if !db.Migrator().HasTable(model) {
			status = "missing"
		}
		logger.Info("Table status", "table", tableName(model), "status", status)
	}
}

func createIndexes(db *database.DB) error {
	// Postgres-only indexes; SQLite dev databases do without
	if db.IsSQLite() {
		return nil
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cases_company_created ON cases(company_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_documents_case_status ON documents(case_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_open_due ON payments(due_date) WHERE status IN ('DUE', 'UNPAID', 'PARTIAL')",
		"CREATE INDEX IF NOT EXISTS idx_communications_general ON communications(created_at DESC) WHERE case_id IS NULL AND company_id IS NULL AND task_id IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_companies_contact_email_lower ON companies(LOWER(primary_contact_email))",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func tableName(model interface{}) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", model)
}
