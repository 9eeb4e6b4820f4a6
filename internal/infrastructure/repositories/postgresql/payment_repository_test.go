package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_CreateDefaultsToDue(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPaymentRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	company := db.CreateTestCompany(t, "")
	c := db.CreateTestCase(t, company, db.CreateTestService(t))

	payment, err := repo.Create(ctx, repositories.CreatePaymentInput{
		CaseID:        c.ID,
		AmountDue:     decimal.RequireFromString("2500.75"),
		InvoiceNumber: "INV-001",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentDue, payment.Status)
	assert.True(t, payment.AmountDue.Equal(decimal.RequireFromString("2500.75")))
	require.NotNil(t, payment.Case)
	require.NotNil(t, payment.Case.Company)
	assert.Equal(t, company.Name, payment.Case.Company.Name)
}

func TestPaymentRepository_RejectsNegativeAmount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPaymentRepository(db.DB, logger.NewForTesting())

	c := db.CreateTestCase(t, db.CreateTestCompany(t, ""), db.CreateTestService(t))
	_, err := repo.Create(context.Background(), repositories.CreatePaymentInput{
		CaseID:    c.ID,
		AmountDue: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.True(t, repositories.IsValidationError(err))
	assert.Contains(t, err.Error(), "amount_due")
}

func TestPaymentRepository_MarkOverdue(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPaymentRepository(db.DB, logger.NewForTesting())
	ctx := context.Background()

	c := db.CreateTestCase(t, db.CreateTestCompany(t, ""), db.CreateTestService(t))
	asOf := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	lastWeek := asOf.AddDate(0, 0, -7)
	earlierToday := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)

	late, err := repo.Create(ctx, repositories.CreatePaymentInput{CaseID: c.ID, DueDate: &lastWeek})
	require.NoError(t, err)
	partial, err := repo.Create(ctx, repositories.CreatePaymentInput{CaseID: c.ID, DueDate: &lastWeek, Status: entities.PaymentPartial})
	require.NoError(t, err)
	paid, err := repo.Create(ctx, repositories.CreatePaymentInput{CaseID: c.ID, DueDate: &lastWeek, Status: entities.PaymentPaid})
	require.NoError(t, err)
	today, err := repo.Create(ctx, repositories.CreatePaymentInput{CaseID: c.ID, DueDate: &earlierToday})
	require.NoError(t, err)

	moved, err := repo.MarkOverdue(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	for id, want := range map[*entities.Payment]entities.PaymentStatus{
		late:    entities.PaymentOverdue,
		partial: entities.PaymentOverdue,
		paid:    entities.PaymentPaid,
		today:   entities.PaymentDue,
	} {
		got, err := repo.GetByID(ctx, id.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "payment %s", id.InvoiceNumber)
	}

	moved, err = repo.MarkOverdue(ctx, asOf)
	require.NoError(t, err)
	assert.Zero(t, moved)
}
