package repositories

import (
	"errors"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunicationFilters_Validate(t *testing.T) {
	caseID := uuid.New()
	userID := uuid.New()

	assert.NoError(t, CommunicationFilters{}.Validate())
	assert.NoError(t, CommunicationFilters{CaseID: &caseID}.Validate())
	assert.NoError(t, CommunicationFilters{General: true}.Validate())

	err := CommunicationFilters{CaseID: &caseID, UserID: &userID}.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "got: case_id, user_id")

	err = CommunicationFilters{UserID: &userID, General: true}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got: user_id, general")
	assert.NotContains(t, err.Error(), "got: case_id")
}

func TestDocumentFilters_ParamsAreOrderIndependent(t *testing.T) {
	a := DocumentFilters{Statuses: []entities.DocumentStatus{entities.DocRejected, entities.DocNotSubmitted}}
	b := DocumentFilters{Statuses: []entities.DocumentStatus{entities.DocNotSubmitted, entities.DocRejected}}
	assert.Equal(t, a.Params().Encode(), b.Params().Encode())
}

func TestFilters_OnlySuppliedParams(t *testing.T) {
	companyID := uuid.New()
	params := CaseFilters{CompanyID: &companyID}.Params()
	assert.Equal(t, companyID.String(), params.Get("company_id"))
	assert.Len(t, params, 1)

	assert.Empty(t, TaskFilters{}.Params())
}

func TestValidate_CompanyNameRequired(t *testing.T) {
	err := Validate(CreateCompanyInput{PrimaryContactEmail: "a@x.com"})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name is required", ve.Fields["name"])
}

func TestValidate_CasePriorityRange(t *testing.T) {
	in := CreateCaseInput{CompanyID: uuid.New(), ServiceID: uuid.New(), Priority: 7}
	err := Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priority must be at most 5")

	in.Priority = 0
	assert.NoError(t, Validate(in))
}

func TestStoreError_SupportSuffix(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapStoreError("list cases", cause)

	assert.Contains(t, err.Error(), "failed to list cases: connection reset")
	assert.Contains(t, err.Error(), SupportSuffix)
	assert.True(t, errors.Is(err, cause))

	// already wrapped errors are not wrapped twice
	assert.Equal(t, err, WrapStoreError("other", err))
	assert.Nil(t, WrapStoreError("noop", nil))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "primary_contact_email", toSnakeCase("PrimaryContactEmail"))
	assert.Equal(t, "tax_id", toSnakeCase("TaxID"))
	assert.Equal(t, "name", toSnakeCase("Name"))
}
