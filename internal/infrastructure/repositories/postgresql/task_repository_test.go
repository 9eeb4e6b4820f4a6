package postgresql

import (
	"context"
	"errors"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CaseTaskExposesTaskID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTaskRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	company := db.CreateTestCompany(t, "")
	c := db.CreateTestCase(t, company, db.CreateTestService(t))

	task, err := repo.Create(ctx, repositories.CreateTaskInput{
		Origin: entities.OriginCase,
		CaseID: &c.ID,
		Title:  "Collect signed lease",
	})
	require.NoError(t, err)

	caseTask, ok := task.(*entities.CaseTask)
	require.True(t, ok, "got %T", task)
	assert.Equal(t, caseTask.CaseTaskID, caseTask.TaskID)
	assert.Equal(t, entities.OriginCase, caseTask.OriginType)
	assert.Equal(t, c.ID, caseTask.CaseID)
	assert.Equal(t, entities.TaskNotStarted, caseTask.Status)
	require.NotNil(t, caseTask.Case)
	require.NotNil(t, caseTask.Case.Company)
	assert.Equal(t, company.Name, caseTask.Case.Company.Name)

	found, err := repo.GetByID(ctx, entities.OriginCase, caseTask.TaskID)
	require.NoError(t, err)
	assert.Equal(t, caseTask.TaskID, found.Common().TaskID)

	// the same id under another origin is a different table
	missing, err := repo.GetByID(ctx, entities.OriginCompany, caseTask.TaskID)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskRepository_CreateRequiresParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTaskRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	_, err := repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginCase, Title: "Orphan"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case_id is required")

	_, err = repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginCompany, Title: "Orphan"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company_id is required")

	_, err = repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.TaskOrigin("GLOBAL"), Title: "Odd"})
	assert.True(t, repositories.IsValidationError(err))
}

func TestTaskRepository_ListMergesOrigins(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTaskRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	company := db.CreateTestCompany(t, "")
	c := db.CreateTestCase(t, company, db.CreateTestService(t))

	_, err := repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginPredefined, Title: "Template"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginCompany, CompanyID: &company.ID, Title: "Renew license"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginCase, CaseID: &c.ID, Title: "File application"})
	require.NoError(t, err)

	all, err := repo.List(ctx, repositories.TaskFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Common().CreatedAt.After(all[i-1].Common().CreatedAt))
	}

	byCase, err := repo.List(ctx, repositories.TaskFilters{CaseID: &c.ID})
	require.NoError(t, err)
	require.Len(t, byCase, 1)
	assert.Equal(t, entities.OriginCase, byCase[0].Origin())

	byCompany, err := repo.List(ctx, repositories.TaskFilters{CompanyID: &company.ID})
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, entities.OriginCompany, byCompany[0].Origin())

	none, err := repo.List(ctx, repositories.TaskFilters{Origin: entities.OriginPredefined, CaseID: &c.ID})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTaskRepository(db.DB, logger.NewForTesting())
	categories := NewTaskCategoryRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	category, err := categories.Create(ctx, repositories.CreateTaskCategoryInput{Name: "Licensing"})
	require.NoError(t, err)

	company := db.CreateTestCompany(t, "")
	task, err := repo.Create(ctx, repositories.CreateTaskInput{Origin: entities.OriginCompany, CompanyID: &company.ID, Title: "Renew"})
	require.NoError(t, err)
	id := task.Common().TaskID

	status := entities.TaskBlocked
	updated, err := repo.Update(ctx, entities.OriginCompany, id, repositories.UpdateTaskInput{
		Status:     &status,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskBlocked, updated.Common().Status)
	require.NotNil(t, updated.Common().Category)
	assert.Equal(t, "Licensing", updated.Common().Category.Name)

	require.NoError(t, repo.Delete(ctx, entities.OriginCompany, id))
	err = repo.Delete(ctx, entities.OriginCompany, id)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	_, err = repo.Update(ctx, entities.OriginCompany, uuid.New(), repositories.UpdateTaskInput{})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
