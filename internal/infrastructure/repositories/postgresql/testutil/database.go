package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/logger"
)

// TestDB wraps the database for testing
type TestDB struct {
	*database.DB
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Use DATABASE_URL_TEST if available (for Docker), otherwise SQLite
	databaseURL := os.Getenv("DATABASE_URL_TEST")
	if databaseURL == "" {
		// one named in-memory database per test
		databaseURL = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		t.Logf("Using PostgreSQL database for testing: %s", databaseURL)
	}

	db, err := database.NewWithLogLevel(databaseURL, logger.Silent)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return &TestDB{DB: db}
}

func short() string {
	return uuid.NewString()[:8]
}

// CreateTestProfile creates a profile with the given role
func (db *TestDB) CreateTestProfile(t *testing.T, role string) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("user-%s@example.com", short()),
		FullName: "Test User",
		Role:     role,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestCompany creates a company whose primary contact is contactEmail
func (db *TestDB) CreateTestCompany(t *testing.T, contactEmail string) *models.Company {
	t.Helper()

	company := &models.Company{
		Name:                fmt.Sprintf("Test Company %s", short()),
		Country:             "Saudi Arabia",
		PrimaryContactEmail: contactEmail,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("Failed to create test company: %v", err)
	}
	return company
}

// CreateTestService creates a catalog service in a fresh category
func (db *TestDB) CreateTestService(t *testing.T) *models.Service {
	t.Helper()

	category := &models.ServiceCategory{Name: fmt.Sprintf("Category %s", short())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test service category: %v", err)
	}

	service := &models.Service{
		Name:       fmt.Sprintf("Commercial Registration %s", short()),
		CategoryID: &category.ID,
		BasePrice:  decimal.RequireFromString("1500.00"),
	}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

// CreateTestCase creates a NOT_STARTED case for the company
func (db *TestDB) CreateTestCase(t *testing.T, company *models.Company, service *models.Service) *models.Case {
	t.Helper()

	c := &models.Case{
		CompanyID:  company.ID,
		ServiceID:  service.ID,
		CaseStatus: "NOT_STARTED",
		Priority:   3,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("Failed to create test case: %v", err)
	}
	return c
}

// CreateTestDocumentType creates a document type lookup row
func (db *TestDB) CreateTestDocumentType(t *testing.T) *models.DocumentType {
	t.Helper()

	docType := &models.DocumentType{Name: fmt.Sprintf("Doc Type %s", short())}
	if err := db.Create(docType).Error; err != nil {
		t.Fatalf("Failed to create test document type: %v", err)
	}
	return docType
}
