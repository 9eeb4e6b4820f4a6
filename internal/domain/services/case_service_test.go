package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type caseFixture struct {
	env       *testEnv
	cases     *MockCaseRepository
	tasks     *MockTaskRepository
	documents *MockDocumentRepository
	catalog   *MockCatalogRepository
	service   *services.CaseService
}

func newCaseFixture(t *testing.T) *caseFixture {
	env := newTestEnv(t)
	f := &caseFixture{
		env:       env,
		cases:     new(MockCaseRepository),
		tasks:     new(MockTaskRepository),
		documents: new(MockDocumentRepository),
		catalog:   new(MockCatalogRepository),
	}
	f.service = services.NewCaseService(f.cases, f.tasks, f.documents, f.catalog, env.deps, services.DefaultEnrichmentLimit)
	return f
}

func TestCaseService_GetWithEmptyIDMakesNoCall(t *testing.T) {
	f := newCaseFixture(t)

	got, err := f.service.Get(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	f.cases.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCaseService_UpdateInvalidatesCaseAndRelatedKeys(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	companyID := uuid.New()
	otherCompanyID := uuid.New()
	caseID := uuid.New()
	existing := &entities.Case{ID: caseID, CompanyID: companyID, Status: entities.CaseNotStarted}
	filters := repositories.CaseFilters{CompanyID: &companyID}

	f.cases.On("GetByID", mock.Anything, caseID).Return(existing, nil)
	f.cases.On("List", mock.Anything, filters).Return([]entities.Case{*existing}, nil)

	_, err := f.service.Get(ctx, caseID)
	require.NoError(t, err)
	_, err = f.service.List(ctx, filters)
	require.NoError(t, err)

	// keys outside the case graph
	for _, key := range []querykeys.Key{
		querykeys.Companies.Detail(companyID.String()),
		querykeys.Companies.Detail(otherCompanyID.String()),
		querykeys.EnrichedCases(companyID.String()),
	} {
		_, err := services.Fetch(ctx, f.env.queries, key, func(context.Context) (string, error) { return "v", nil })
		require.NoError(t, err)
	}

	status := entities.CaseInProgress
	updated := &entities.Case{ID: caseID, CompanyID: companyID, Status: status}
	input := repositories.UpdateCaseInput{Status: &status}
	f.cases.On("Update", mock.Anything, caseID, input).Return(updated, nil)

	_, err = f.service.Update(ctx, caseID, input)
	require.NoError(t, err)

	assert.True(t, f.env.queries.State(ctx, querykeys.Cases.Detail(caseID.String())).IsStale)
	assert.True(t, f.env.queries.State(ctx, querykeys.Cases.Lists(filters)).IsStale)
	assert.True(t, f.env.queries.State(ctx, querykeys.EnrichedCases(companyID.String())).IsStale)
	assert.True(t, f.env.queries.State(ctx, querykeys.Companies.Detail(companyID.String())).IsStale)
	assert.False(t, f.env.queries.State(ctx, querykeys.Companies.Detail(otherCompanyID.String())).IsStale)

	assert.Equal(t, []string{"Case updated"}, f.env.notifier.success)
	assert.Empty(t, f.env.notifier.failures)
}

func TestCaseService_DeleteEvictsDetail(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()
	caseID := uuid.New()

	f.cases.On("GetByID", mock.Anything, caseID).Return(&entities.Case{ID: caseID}, nil).Once()
	f.cases.On("Delete", mock.Anything, caseID).Return(nil)

	_, err := f.service.Get(ctx, caseID)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, caseID))

	state := f.env.queries.State(ctx, querykeys.Cases.Detail(caseID.String()))
	assert.Equal(t, services.QueryIdle, state.Status)

	f.cases.On("GetByID", mock.Anything, caseID).Return(nil, nil).Once()
	got, err := f.service.Get(ctx, caseID)
	require.NoError(t, err)
	assert.Nil(t, got)
	f.cases.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestCaseService_FailedMutationNotifiesOnceWithStoreMessage(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	storeErr := repositories.WrapStoreError("create case", errors.New("insert violates foreign key"))
	input := repositories.CreateCaseInput{CompanyID: uuid.New(), ServiceID: uuid.New()}
	f.cases.On("Create", mock.Anything, input).Return(nil, storeErr).Once()

	_, err := f.service.Create(ctx, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	assert.Equal(t, 1, f.env.notifier.total())
	require.Len(t, f.env.notifier.failures, 1)
	assert.Contains(t, f.env.notifier.failures[0], "insert violates foreign key")
	f.cases.AssertNumberOfCalls(t, "Create", 1)
}

func makeCases(n int) []entities.Case {
	out := make([]entities.Case, n)
	for i := range out {
		out[i] = entities.Case{ID: uuid.New(), ServiceID: uuid.New(), Notes: fmt.Sprintf("case-%d", i)}
	}
	return out
}

func TestEnrich_CapsAtTwentyAndKeepsOrder(t *testing.T) {
	f := newCaseFixture(t)
	cases := makeCases(25)

	f.catalog.On("GetService", mock.Anything, mock.Anything).Return(&entities.Service{Name: "CR"}, nil)
	f.tasks.On("List", mock.Anything, mock.Anything).Return([]entities.Task{&entities.CaseTask{}, &entities.CaseTask{}}, nil)
	f.documents.On("List", mock.Anything, mock.MatchedBy(func(fl repositories.DocumentFilters) bool {
		return len(fl.Statuses) == 0
	})).Return([]entities.Document{{}, {}, {}}, nil)
	f.documents.On("List", mock.Anything, mock.MatchedBy(func(fl repositories.DocumentFilters) bool {
		return len(fl.Statuses) > 0
	})).Return([]entities.Document{{}}, nil)

	out := f.service.Enrich(context.Background(), cases)

	require.Len(t, out.Cases, 25)
	assert.Equal(t, 5, out.Truncated)
	assert.Empty(t, out.Error)
	for i, ec := range out.Cases {
		assert.Equal(t, cases[i].ID, ec.ID, "order must be preserved")
		if i < 20 {
			assert.True(t, ec.Enriched)
			assert.Equal(t, 2, ec.TaskCount)
			assert.Equal(t, 3, ec.DocumentCount)
			assert.Equal(t, 1, ec.PendingDocumentCount)
			require.NotNil(t, ec.ServiceDetail)
			assert.Equal(t, "CR", ec.ServiceDetail.Name)
		} else {
			assert.False(t, ec.Enriched)
			assert.Nil(t, ec.ServiceDetail)
		}
	}
	f.catalog.AssertNumberOfCalls(t, "GetService", 20)
}

func TestEnrich_FailingCaseDegradesToBaseRecord(t *testing.T) {
	f := newCaseFixture(t)
	cases := makeCases(3)
	failing := cases[1].ID

	f.catalog.On("GetService", mock.Anything, mock.Anything).Return(&entities.Service{Name: "CR"}, nil)
	f.tasks.On("List", mock.Anything, mock.MatchedBy(func(fl repositories.TaskFilters) bool {
		return fl.CaseID != nil && *fl.CaseID == failing
	})).Return(nil, errors.New("tasks unavailable"))
	f.tasks.On("List", mock.Anything, mock.Anything).Return([]entities.Task{}, nil)
	f.documents.On("List", mock.Anything, mock.Anything).Return([]entities.Document{}, nil)

	out := f.service.Enrich(context.Background(), cases)

	require.Len(t, out.Cases, 3)
	assert.True(t, out.Cases[0].Enriched)
	assert.True(t, out.Cases[2].Enriched)

	degraded := out.Cases[1]
	assert.False(t, degraded.Enriched)
	assert.Equal(t, cases[1], degraded.Case)
	assert.Nil(t, degraded.ServiceDetail)
	assert.Contains(t, degraded.Err, "tasks unavailable")
	assert.Contains(t, out.Error, "tasks unavailable")
	assert.Zero(t, out.Truncated)
}

func TestCompanyCasesEnriched_IsCached(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	cases := makeCases(2)

	f.cases.On("List", mock.Anything, repositories.CaseFilters{CompanyID: &companyID}).Return(cases, nil)
	f.catalog.On("GetService", mock.Anything, mock.Anything).Return(&entities.Service{}, nil)
	f.tasks.On("List", mock.Anything, mock.Anything).Return([]entities.Task{}, nil)
	f.documents.On("List", mock.Anything, mock.Anything).Return([]entities.Document{}, nil)

	first, err := f.service.CompanyCasesEnriched(ctx, companyID)
	require.NoError(t, err)
	second, err := f.service.CompanyCasesEnriched(ctx, companyID)
	require.NoError(t, err)

	assert.Len(t, first.Cases, 2)
	assert.Equal(t, first.Cases[0].ID, second.Cases[0].ID)
	f.cases.AssertNumberOfCalls(t, "List", 1)
}

func TestCompanyCasesEnriched_DegradedResultIsRetried(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	cases := makeCases(1)

	f.cases.On("List", mock.Anything, repositories.CaseFilters{CompanyID: &companyID}).Return(cases, nil)
	f.catalog.On("GetService", mock.Anything, mock.Anything).Return(&entities.Service{Name: "CR"}, nil)
	f.tasks.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("transient")).Once()
	f.tasks.On("List", mock.Anything, mock.Anything).Return([]entities.Task{&entities.CaseTask{}}, nil)
	f.documents.On("List", mock.Anything, mock.Anything).Return([]entities.Document{}, nil)

	first, err := f.service.CompanyCasesEnriched(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, first.Cases, 1)
	assert.False(t, first.Cases[0].Enriched)
	assert.Contains(t, first.Error, "transient")
	assert.True(t, f.env.queries.State(ctx, querykeys.EnrichedCases(companyID.String())).IsStale)

	second, err := f.service.CompanyCasesEnriched(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, second.Cases, 1)
	assert.True(t, second.Cases[0].Enriched)
	assert.Equal(t, 1, second.Cases[0].TaskCount)
	assert.Empty(t, second.Error)
	f.tasks.AssertNumberOfCalls(t, "List", 2)
	assert.False(t, f.env.queries.State(ctx, querykeys.EnrichedCases(companyID.String())).IsStale)
}
