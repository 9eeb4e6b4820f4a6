package services_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/cache/cachetest"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Test setup helpers

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) Success(ctx context.Context, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, title)
}

func (n *recordingNotifier) Failure(ctx context.Context, title string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, title+": "+err.Error())
}

func (n *recordingNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.success) + len(n.failures)
}

type testEnv struct {
	cache    services.CacheService
	queries  *services.QueryClient
	notifier *recordingNotifier
	deps     services.Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	c, _ := cachetest.NewRedis(t)
	log := logger.NewForTesting()
	qc := services.NewQueryClient(c, time.Minute, log)
	n := &recordingNotifier{}
	return &testEnv{
		cache:    c,
		queries:  qc,
		notifier: n,
		deps:     services.Deps{Queries: qc, Notifier: n, Logger: log},
	}
}

// Mock repositories

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) List(ctx context.Context, filters repositories.CaseFilters) ([]entities.Case, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Case), args.Error(1)
}

func (m *MockCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Case), args.Error(1)
}

func (m *MockCaseRepository) Create(ctx context.Context, input repositories.CreateCaseInput) (*entities.Case, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Case), args.Error(1)
}

func (m *MockCaseRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCaseInput) (*entities.Case, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Case), args.Error(1)
}

func (m *MockCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) List(ctx context.Context, filters repositories.CompanyFilters) ([]entities.Company, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) Create(ctx context.Context, input repositories.CreateCompanyInput) (*entities.Company, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCompanyInput) (*entities.Company, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) List(ctx context.Context, filters repositories.TaskFilters) ([]entities.Task, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) (entities.Task, error) {
	args := m.Called(ctx, origin, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, input repositories.CreateTaskInput) (entities.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, input repositories.UpdateTaskInput) (entities.Task, error) {
	args := m.Called(ctx, origin, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) error {
	return m.Called(ctx, origin, id).Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) List(ctx context.Context, filters repositories.DocumentFilters) ([]entities.Document, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, input repositories.CreateDocumentInput) (*entities.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateDocumentInput) (*entities.Document, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListServices(ctx context.Context, filters repositories.ServiceFilters) ([]entities.Service, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Service), args.Error(1)
}

func (m *MockCatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

func (m *MockCatalogRepository) ListServiceCategories(ctx context.Context) ([]entities.ServiceCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ServiceCategory), args.Error(1)
}

func (m *MockCatalogRepository) ListDocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DocumentType), args.Error(1)
}

func (m *MockCatalogRepository) GetDocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DocumentType), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) List(ctx context.Context, filters repositories.ProfileFilters) ([]entities.Profile, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, input repositories.CreateProfileInput) (*entities.Profile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) (*entities.Profile, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) List(ctx context.Context, filters repositories.PaymentFilters) ([]entities.Payment, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, input repositories.CreatePaymentInput) (*entities.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdatePaymentInput) (*entities.Payment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockCommunicationRepository struct {
	mock.Mock
}

func (m *MockCommunicationRepository) List(ctx context.Context, filters repositories.CommunicationFilters) ([]entities.Communication, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Communication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Create(ctx context.Context, input repositories.CreateCommunicationInput) (*entities.Communication, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCommunicationInput) (*entities.Communication, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(accessToken string) (*services.SupabaseUser, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SupabaseUser), args.Error(1)
}

func (m *MockAuthService) AdminUpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*services.SupabaseUser, error) {
	args := m.Called(ctx, userID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SupabaseUser), args.Error(1)
}

func (m *MockAuthService) AdminDeleteUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type testFilters map[string]string

func (f testFilters) Params() url.Values {
	v := url.Values{}
	for k, val := range f {
		v.Set(k, val)
	}
	return v
}
