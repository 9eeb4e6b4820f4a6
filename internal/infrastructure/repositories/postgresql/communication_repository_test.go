package postgresql

import (
	"context"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunicationRepository_CreateRejectsMultipleParents(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommunicationRepository(db.DB, logger.NewForTesting())

	author := db.CreateTestProfile(t, "OFFICER")
	company := db.CreateTestCompany(t, "")
	c := db.CreateTestCase(t, company, db.CreateTestService(t))

	_, err := repo.Create(context.Background(), repositories.CreateCommunicationInput{
		AuthorID:  author.ID,
		CaseID:    &c.ID,
		CompanyID: &company.ID,
		Type:      entities.CommCase,
		Body:      "Both parents",
	})
	require.Error(t, err)
	assert.True(t, repositories.IsValidationError(err))

	var count int64
	db.Table("communications").Count(&count)
	assert.Zero(t, count)
}

func TestCommunicationRepository_ListBySelector(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommunicationRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	author := db.CreateTestProfile(t, "OFFICER")
	company := db.CreateTestCompany(t, "")
	c := db.CreateTestCase(t, company, db.CreateTestService(t))

	onCase, err := repo.Create(ctx, repositories.CreateCommunicationInput{
		AuthorID: author.ID, CaseID: &c.ID, Type: entities.CommCase, Body: "Case note",
	})
	require.NoError(t, err)
	require.NotNil(t, onCase.Author)
	assert.Equal(t, author.Email, onCase.Author.Email)
	assert.False(t, onCase.Read)

	general, err := repo.Create(ctx, repositories.CreateCommunicationInput{
		AuthorID: author.ID, Type: entities.CommAnnouncement, Subject: "Holiday hours", Body: "Closed Thursday",
	})
	require.NoError(t, err)

	byCase, err := repo.List(ctx, repositories.CommunicationFilters{CaseID: &c.ID})
	require.NoError(t, err)
	require.Len(t, byCase, 1)
	assert.Equal(t, onCase.ID, byCase[0].ID)

	feed, err := repo.List(ctx, repositories.CommunicationFilters{General: true})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, general.ID, feed[0].ID)

	byAuthor, err := repo.List(ctx, repositories.CommunicationFilters{UserID: &author.ID})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	_, err = repo.List(ctx, repositories.CommunicationFilters{CaseID: &c.ID, General: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got: case_id, general")
}

func TestCommunicationRepository_MarkRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommunicationRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	author := db.CreateTestProfile(t, "CLIENT")
	created, err := repo.Create(ctx, repositories.CreateCommunicationInput{
		AuthorID: author.ID, Type: entities.CommMessage, Body: "Hello",
	})
	require.NoError(t, err)

	read := true
	updated, err := repo.Update(ctx, created.ID, repositories.UpdateCommunicationInput{Read: &read})
	require.NoError(t, err)
	assert.True(t, updated.Read)
}

func TestCommunicationRepository_InvalidType(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommunicationRepository(db.DB, logger.NewForTesting())

	author := db.CreateTestProfile(t, "CLIENT")
	_, err := repo.Create(context.Background(), repositories.CreateCommunicationInput{
		AuthorID: author.ID, Type: entities.CommunicationType("FAX"), Body: "Hello",
	})
	require.Error(t, err)
	assert.True(t, repositories.IsValidationError(err))
}
