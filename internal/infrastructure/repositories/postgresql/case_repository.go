package postgresql

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPriority = 3

type CaseRepository struct {
	baseRepository
}

func NewCaseRepository(db *database.DB, log *logger.Logger) repositories.CaseRepository {
	return &CaseRepository{baseRepository: newBase(db, log, "cases")}
}

func (r *CaseRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Service").
		Preload("Company").
		Preload("AssignedUser")
}

func (r *CaseRepository) List(ctx context.Context, filters repositories.CaseFilters) ([]entities.Case, error) {
	query := r.query(ctx).Model(&models.Case{})

	if filters.CompanyID != nil {
		query = query.Where("company_id = ?", *filters.CompanyID)
	}
	if filters.ServiceID != nil {
		query = query.Where("service_id = ?", *filters.ServiceID)
	}
	if filters.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedTo)
	}
	if filters.Status != "" {
		query = query.Where("case_status = ?", string(filters.Status))
	}

	var rows []models.Case
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list cases", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Case, 0, len(rows))
	for i := range rows {
		out = append(out, tr.caseEntity(&rows[i]))
	}
	return out, nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Case, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *CaseRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Case, error) {
	var row models.Case
	if err := r.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get case", err)
	}
	c := tr.caseEntity(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &c, nil
}

func (r *CaseRepository) Create(ctx context.Context, input repositories.CreateCaseInput) (*entities.Case, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	status, err := inputEnum(entities.CaseStatuses, "case_status", input.Status, entities.CaseNotStarted)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == 0 {
		priority = defaultPriority
	}
	row := models.Case{
		CompanyID:            input.CompanyID,
		ServiceID:            input.ServiceID,
		CaseStatus:           string(status),
		Priority:             priority,
		ProgressPercent:      input.ProgressPercent,
		StartDate:            input.StartDate,
		TargetDate:           input.TargetDate,
		ActualCompletionDate: input.ActualCompletionDate,
		TotalBudget:          input.TotalBudget,
		SpentBudget:          input.SpentBudget,
		RemainingBudget:      input.TotalBudget.Sub(input.SpentBudget),
		AssignedTo:           input.AssignedTo,
		Notes:                input.Notes,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create case", err)
	}

	r.logger.Info("Case created", "case_id", row.ID, "company_id", row.CompanyID)
	return r.reload(ctx, row.ID, "create case")
}

func (r *CaseRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCaseInput) (*entities.Case, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	if input.Status != nil {
		status, err := inputEnum(entities.CaseStatuses, "case_status", *input.Status, "")
		if err != nil {
			return nil, err
		}
		if status != "" {
			p["case_status"] = string(status)
		}
	}
	setIf(p, "service_id", input.ServiceID)
	setIf(p, "priority", input.Priority)
	setIf(p, "progress_percent", input.ProgressPercent)
	setIf(p, "start_date", input.StartDate)
	setIf(p, "target_date", input.TargetDate)
	setIf(p, "actual_completion_date", input.ActualCompletionDate)
	setIf(p, "assigned_to", input.AssignedTo)
	setIf(p, "notes", input.Notes)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.TotalBudget != nil || input.SpentBudget != nil {
			var current models.Case
			if err := tx.Select("total_budget", "spent_budget").Where("id = ?", id).First(&current).Error; err != nil {
				if isNotFound(err) {
					return repositories.ErrNotFound
				}
				return repositories.WrapStoreError("update case", err)
			}
			total, spent := current.TotalBudget, current.SpentBudget
			if input.TotalBudget != nil {
				total = *input.TotalBudget
			}
			if input.SpentBudget != nil {
				spent = *input.SpentBudget
			}
			p["total_budget"] = total
			p["spent_budget"] = spent
			p["remaining_budget"] = total.Sub(spent)
		}

		txRepo := baseRepository{db: &database.DB{DB: tx}, logger: r.logger}
		return txRepo.updateRow(ctx, &models.Case{}, "id", id, p, "update case")
	})
	if err != nil {
		return nil, err
	}

	return r.reload(ctx, id, "update case")
}

func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.deleteRow(ctx, &models.Case{}, "id", id, "delete case"); err != nil {
		return err
	}
	r.logger.Info("Case deleted", "case_id", id)
	return nil
}

func (r *CaseRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Case, error) {
	c, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return c, nil
}
