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

func TestCompanyRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	manager := db.CreateTestProfile(t, "ACCOUNT_MANAGER")

	created, err := repo.Create(ctx, repositories.CreateCompanyInput{
		Name:                "Acme Trading",
		PrimaryContactEmail: "owner@acme.sa",
		AccountManagerID:    &manager.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Saudi Arabia", created.Country)
	require.NotNil(t, created.AccountManager)
	assert.Equal(t, manager.Email, created.AccountManager.Email)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, found.Name)
	assert.Equal(t, created.AccountManager, found.AccountManager)
}

func TestCompanyRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())

	found, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestCompanyRepository_Create_NameRequired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())

	_, err := repo.Create(context.Background(), repositories.CreateCompanyInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, repositories.IsValidationError(err))

	var count int64
	db.Table("companies").Count(&count)
	assert.Zero(t, count)
}

func TestCompanyRepository_GetByUserID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	client := db.CreateTestProfile(t, "CLIENT")
	company := db.CreateTestCompany(t, client.Email)
	db.CreateTestCompany(t, "someone-else@example.com")

	found, err := repo.GetByUserID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, company.ID, found.ID)

	stranger := db.CreateTestProfile(t, "CLIENT")
	found, err = repo.GetByUserID(ctx, stranger.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.GetByUserID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestCompanyRepository_ListSearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	_, err := repo.Create(ctx, repositories.CreateCompanyInput{Name: "Najd Logistics"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, repositories.CreateCompanyInput{Name: "Red Sea Foods"})
	require.NoError(t, err)

	all, err := repo.List(ctx, repositories.CompanyFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.List(ctx, repositories.CompanyFilters{Search: "logistics"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Najd Logistics", found[0].Name)
}

func TestCompanyRepository_UpdateDelete_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	name := "Ghost"
	_, err := repo.Update(ctx, uuid.New(), repositories.UpdateCompanyInput{Name: &name})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	err = repo.Delete(ctx, uuid.New())
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestCompanyRepository_StoreErrorCarriesSupportSuffix(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db.DB, logger.NewForTesting())
	require.NoError(t, db.Close())

	_, err := repo.List(context.Background(), repositories.CompanyFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list companies")
	assert.Contains(t, err.Error(), repositories.SupportSuffix)

	var se *repositories.StoreError
	assert.True(t, errors.As(err, &se))
}

func TestProfileRepository_RoleLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	id := uuid.New()
	created, err := repo.Create(ctx, repositories.CreateProfileInput{
		ID:    id,
		Email: "officer@casedesk.sa",
		Role:  entities.RoleOfficer,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, entities.RoleOfficer, created.Role)

	updated, err := repo.UpdateRole(ctx, id, entities.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleManager, updated.Role)

	_, err = repo.UpdateRole(ctx, id, entities.UserRole("ROOT"))
	assert.True(t, repositories.IsValidationError(err))

	managers, err := repo.List(ctx, repositories.ProfileFilters{Role: entities.RoleManager})
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	require.NoError(t, repo.Delete(ctx, id))
	found, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestProfileRepository_UnknownStoredRoleReadsAsZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository(db.DB, logger.NewForTesting())

	legacy := db.CreateTestProfile(t, "SUPERVISOR")

	found, err := repo.GetByID(context.Background(), legacy.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entities.UserRole(""), found.Role)
}
