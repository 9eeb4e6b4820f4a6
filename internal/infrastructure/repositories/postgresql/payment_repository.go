package postgresql

import (
	"context"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	baseRepository
}

func NewPaymentRepository(db *database.DB, log *logger.Logger) repositories.PaymentRepository {
	return &PaymentRepository{baseRepository: newBase(db, log, "payments")}
}

func (r *PaymentRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Case.Company")
}

func (r *PaymentRepository) List(ctx context.Context, filters repositories.PaymentFilters) ([]entities.Payment, error) {
	query := r.query(ctx).Model(&models.Payment{})

	if filters.CaseID != nil {
		query = query.Where("case_id = ?", *filters.CaseID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}

	var rows []models.Payment
	if err := query.Order("due_date ASC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list payments", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, tr.payment(&rows[i]))
	}
	return out, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *PaymentRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Payment, error) {
	var row models.Payment
	if err := r.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get payment", err)
	}
	payment := tr.payment(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, input repositories.CreatePaymentInput) (*entities.Payment, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	if err := checkAmounts(&input.AmountDue, &input.AmountPaid); err != nil {
		return nil, err
	}
	status, err := inputEnum(entities.PaymentStatuses, "status", input.Status, entities.PaymentDue)
	if err != nil {
		return nil, err
	}

	row := models.Payment{
		CaseID:        input.CaseID,
		AmountDue:     input.AmountDue,
		AmountPaid:    input.AmountPaid,
		DueDate:       input.DueDate,
		Status:        string(status),
		InvoiceNumber: input.InvoiceNumber,
		InvoiceURL:    input.InvoiceURL,
		Notes:         input.Notes,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create payment", err)
	}

	r.logger.Info("Payment created", "payment_id", row.ID, "case_id", row.CaseID, "status", row.Status)
	return r.reload(ctx, row.ID, "create payment")
}

func (r *PaymentRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdatePaymentInput) (*entities.Payment, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	if err := checkAmounts(input.AmountDue, input.AmountPaid); err != nil {
		return nil, err
	}

	p := patch{}
	if input.Status != nil {
		status, err := inputEnum(entities.PaymentStatuses, "status", *input.Status, "")
		if err != nil {
			return nil, err
		}
		if status != "" {
			p["status"] = string(status)
		}
	}
	setIf(p, "amount_due", input.AmountDue)
	setIf(p, "amount_paid", input.AmountPaid)
	setIf(p, "due_date", input.DueDate)
	setIf(p, "paid_at", input.PaidAt)
	setIf(p, "invoice_number", input.InvoiceNumber)
	setIf(p, "invoice_url", input.InvoiceURL)
	setIf(p, "notes", input.Notes)

	if err := r.updateRow(ctx, &models.Payment{}, "id", id, p, "update payment"); err != nil {
		return nil, err
	}
	return r.reload(ctx, id, "update payment")
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, &models.Payment{}, "id", id, "delete payment")
}

// MarkOverdue moves every open payment whose due date is before the start of
// asOf's day to OVERDUE and reports how many rows changed.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	y, m, d := asOf.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location())

	eligible := make([]string, 0, len(entities.OverdueEligibleStatuses))
	for _, s := range entities.OverdueEligibleStatuses {
		eligible = append(eligible, string(s))
	}

	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status IN ?", eligible).
		Where("due_date IS NOT NULL AND due_date < ?", startOfDay).
		Updates(map[string]interface{}{
			"status":     string(entities.PaymentOverdue),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, repositories.WrapStoreError("mark overdue payments", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Payments marked overdue", "count", result.RowsAffected, "as_of", startOfDay)
	}
	return result.RowsAffected, nil
}

func (r *PaymentRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Payment, error) {
	payment, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return payment, nil
}

func checkAmounts(due, paid *decimal.Decimal) error {
	if due != nil && due.IsNegative() {
		return &repositories.ValidationError{
			Message: "amount_due cannot be negative",
			Fields:  map[string]string{"amount_due": "must be zero or more"},
		}
	}
	if paid != nil && paid.IsNegative() {
		return &repositories.ValidationError{
			Message: "amount_paid cannot be negative",
			Fields:  map[string]string{"amount_paid": "must be zero or more"},
		}
	}
	return nil
}
