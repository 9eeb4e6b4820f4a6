package repositories

import (
	"context"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/google/uuid"
)

// Resource client interfaces, one per relation. Implementations talk to the
// remote store only; caching belongs to the query layer above them.
//
// GetByID returns (nil, nil) when the store reports the row does not exist.

type ProfileRepository interface {
	List(ctx context.Context, filters ProfileFilters) ([]entities.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error)
	Create(ctx context.Context, input CreateProfileInput) (*entities.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) (*entities.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CompanyRepository interface {
	List(ctx context.Context, filters CompanyFilters) ([]entities.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Company, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Company, error)
	Create(ctx context.Context, input CreateCompanyInput) (*entities.Company, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*entities.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CaseRepository interface {
	List(ctx context.Context, filters CaseFilters) ([]entities.Case, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Case, error)
	Create(ctx context.Context, input CreateCaseInput) (*entities.Case, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCaseInput) (*entities.Case, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DocumentRepository interface {
	List(ctx context.Context, filters DocumentFilters) ([]entities.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error)
	Create(ctx context.Context, input CreateDocumentInput) (*entities.Document, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*entities.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	List(ctx context.Context, filters PaymentFilters) ([]entities.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	Create(ctx context.Context, input CreatePaymentInput) (*entities.Payment, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (*entities.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type CommunicationRepository interface {
	List(ctx context.Context, filters CommunicationFilters) ([]entities.Communication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Communication, error)
	Create(ctx context.Context, input CreateCommunicationInput) (*entities.Communication, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCommunicationInput) (*entities.Communication, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository interface {
	List(ctx context.Context, filters TaskFilters) ([]entities.Task, error)
	GetByID(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) (entities.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (entities.Task, error)
	Update(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, input UpdateTaskInput) (entities.Task, error)
	Delete(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) error
}

type TaskCategoryRepository interface {
	List(ctx context.Context) ([]entities.TaskCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TaskCategory, error)
	Create(ctx context.Context, input CreateTaskCategoryInput) (*entities.TaskCategory, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskCategoryInput) (*entities.TaskCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogRepository serves the read-mostly lookup relations.
type CatalogRepository interface {
	ListServices(ctx context.Context, filters ServiceFilters) ([]entities.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error)
	ListServiceCategories(ctx context.Context) ([]entities.ServiceCategory, error)
	ListDocumentTypes(ctx context.Context) ([]entities.DocumentType, error)
	GetDocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error)
}
