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

type CommunicationRepository struct {
	baseRepository
}

func NewCommunicationRepository(db *database.DB, log *logger.Logger) repositories.CommunicationRepository {
	return &CommunicationRepository{baseRepository: newBase(db, log, "communications")}
}

func (r *CommunicationRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author")
}

func (r *CommunicationRepository) List(ctx context.Context, filters repositories.CommunicationFilters) ([]entities.Communication, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	query := r.query(ctx).Model(&models.Communication{})
	switch {
	case filters.CaseID != nil:
		query = query.Where("case_id = ?", *filters.CaseID)
	case filters.CompanyID != nil:
		query = query.Where("company_id = ?", *filters.CompanyID)
	case filters.TaskID != nil:
		query = query.Where("task_id = ?", *filters.TaskID)
	case filters.UserID != nil:
		query = query.Where("author_id = ?", *filters.UserID)
	case filters.General:
		query = query.Where("case_id IS NULL AND company_id IS NULL AND task_id IS NULL")
	}

	var rows []models.Communication
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list communications", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Communication, 0, len(rows))
	for i := range rows {
		out = append(out, tr.communication(&rows[i]))
	}
	return out, nil
}

func (r *CommunicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Communication, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *CommunicationRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Communication, error) {
	var row models.Communication
	if err := r.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get communication", err)
	}
	comm := tr.communication(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &comm, nil
}

// Create rejects a message linked to more than one parent before touching
// the store.
func (r *CommunicationRepository) Create(ctx context.Context, input repositories.CreateCommunicationInput) (*entities.Communication, error) {
	if input.ParentCount() > 1 {
		return nil, &repositories.ValidationError{
			Message: "a communication can be linked to at most one of case_id, company_id or task_id",
			Fields:  map[string]string{"case_id": "conflicts with another parent"},
		}
	}
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	commType, err := inputEnum(entities.CommunicationTypes, "comm_type", input.Type, "")
	if err != nil {
		return nil, err
	}

	row := models.Communication{
		AuthorID:  input.AuthorID,
		CaseID:    input.CaseID,
		CompanyID: input.CompanyID,
		TaskID:    input.TaskID,
		CommType:  string(commType),
		Subject:   input.Subject,
		Body:      input.Body,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create communication", err)
	}

	r.logger.Info("Communication created", "communication_id", row.ID, "comm_type", row.CommType)
	return r.reload(ctx, row.ID, "create communication")
}

func (r *CommunicationRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCommunicationInput) (*entities.Communication, error) {
	if input.ParentCount() > 1 {
		// the stored row may already carry another parent, so the store
		// decides; we only flag it
		r.logger.Warn("Communication update sets more than one parent", "communication_id", id)
	}
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	if input.Type != nil {
		commType, err := inputEnum(entities.CommunicationTypes, "comm_type", *input.Type, "")
		if err != nil {
			return nil, err
		}
		if commType != "" {
			p["comm_type"] = string(commType)
		}
	}
	setIf(p, "case_id", input.CaseID)
	setIf(p, "company_id", input.CompanyID)
	setIf(p, "task_id", input.TaskID)
	setIf(p, "subject", input.Subject)
	setIf(p, "body", input.Body)
	setIf(p, "is_read", input.Read)

	if err := r.updateRow(ctx, &models.Communication{}, "id", id, p, "update communication"); err != nil {
		return nil, err
	}
	return r.reload(ctx, id, "update communication")
}

func (r *CommunicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, &models.Communication{}, "id", id, "delete communication")
}

func (r *CommunicationRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Communication, error) {
	comm, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if comm == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return comm, nil
}
