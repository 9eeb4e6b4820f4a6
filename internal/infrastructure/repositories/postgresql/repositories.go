package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repositories holds all repository implementations
type Repositories struct {
	ProfileRepo       repositories.ProfileRepository
	CompanyRepo       repositories.CompanyRepository
	CaseRepo          repositories.CaseRepository
	DocumentRepo      repositories.DocumentRepository
	PaymentRepo       repositories.PaymentRepository
	CommunicationRepo repositories.CommunicationRepository
	TaskRepo          repositories.TaskRepository
	TaskCategoryRepo  repositories.TaskCategoryRepository
	CatalogRepo       repositories.CatalogRepository

	// Internal reference to database for health checks
	db *database.DB
}

// NewRepositories creates a new repositories container
func NewRepositories(db *database.DB, log *logger.Logger) *Repositories {
	return &Repositories{
		ProfileRepo:       NewProfileRepository(db, log),
		CompanyRepo:       NewCompanyRepository(db, log),
		CaseRepo:          NewCaseRepository(db, log),
		DocumentRepo:      NewDocumentRepository(db, log),
		PaymentRepo:       NewPaymentRepository(db, log),
		CommunicationRepo: NewCommunicationRepository(db, log),
		TaskRepo:          NewTaskRepository(db, log),
		TaskCategoryRepo:  NewTaskCategoryRepository(db, log),
		CatalogRepo:       NewCatalogRepository(db, log),
		db:                db,
	}
}

// HealthCheck verifies database connectivity
func (r *Repositories) HealthCheck(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// baseRepository carries what every resource client needs
type baseRepository struct {
	db     *database.DB
	logger *logger.Logger
}

func newBase(db *database.DB, log *logger.Logger, resource string) baseRepository {
	return baseRepository{db: db, logger: log.With("repository", resource)}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// updateRow applies a column patch to the row with the given key. An empty
// patch only checks that the row exists.
func (b baseRepository) updateRow(ctx context.Context, model interface{}, keyColumn string, id uuid.UUID, updates map[string]interface{}, op string) error {
	query := b.db.WithContext(ctx).Model(model).Where(keyColumn+" = ?", id)
	if len(updates) == 0 {
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return repositories.WrapStoreError(op, err)
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return nil
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return repositories.WrapStoreError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (b baseRepository) deleteRow(ctx context.Context, model interface{}, keyColumn string, id uuid.UUID, op string) error {
	result := b.db.WithContext(ctx).Where(keyColumn+" = ?", id).Delete(model)
	if result.Error != nil {
		return repositories.WrapStoreError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// inputEnum validates an enum supplied by a caller, falling back to def
// when the value is empty.
func inputEnum[T ~string](candidates []T, field string, value, def T) (T, error) {
	if value == "" {
		return def, nil
	}
	v, ok := entities.ParseEnum(candidates, string(value))
	if !ok {
		return v, &repositories.ValidationError{
			Message: fmt.Sprintf("%s %q is not a valid value", field, value),
			Fields:  map[string]string{field: "invalid value"},
		}
	}
	return v, nil
}

// patch collects the columns of an update input that were set.
type patch map[string]interface{}

func setIf[T any](p patch, column string, value *T) {
	if value != nil {
		p[column] = *value
	}
}
