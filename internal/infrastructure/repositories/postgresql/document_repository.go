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

type DocumentRepository struct {
	baseRepository
}

func NewDocumentRepository(db *database.DB, log *logger.Logger) repositories.DocumentRepository {
	return &DocumentRepository{baseRepository: newBase(db, log, "documents")}
}

func (r *DocumentRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("DocType").
		Preload("Submitter").
		Preload("Reviewer")
}

func (r *DocumentRepository) List(ctx context.Context, filters repositories.DocumentFilters) ([]entities.Document, error) {
	query := r.query(ctx).Model(&models.Document{})

	if filters.CaseID != nil {
		query = query.Where("case_id = ?", *filters.CaseID)
	}
	if filters.CompanyID != nil {
		query = query.Where("company_id = ?", *filters.CompanyID)
	}
	if filters.DocTypeID != nil {
		query = query.Where("doc_type_id = ?", *filters.DocTypeID)
	}
	if len(filters.Statuses) > 0 {
		statuses := make([]string, 0, len(filters.Statuses))
		for _, s := range filters.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status IN ?", statuses)
	}

	var rows []models.Document
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list documents", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Document, 0, len(rows))
	for i := range rows {
		out = append(out, tr.document(&rows[i]))
	}
	return out, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *DocumentRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Document, error) {
	var row models.Document
	if err := r.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get document", err)
	}
	doc := tr.document(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &doc, nil
}

func (r *DocumentRepository) Create(ctx context.Context, input repositories.CreateDocumentInput) (*entities.Document, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	status, err := inputEnum(entities.DocumentStatuses, "status", input.Status, entities.DocNotSubmitted)
	if err != nil {
		return nil, err
	}

	row := models.Document{
		CaseID:      input.CaseID,
		CompanyID:   input.CompanyID,
		DocTypeID:   input.DocTypeID,
		Name:        input.Name,
		FilePath:    input.FilePath,
		Status:      string(status),
		SubmittedBy: input.SubmittedBy,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create document", err)
	}

	r.logger.Info("Document created", "document_id", row.ID, "status", row.Status)
	return r.reload(ctx, row.ID, "create document")
}

func (r *DocumentRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateDocumentInput) (*entities.Document, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	if input.Status != nil {
		status, err := inputEnum(entities.DocumentStatuses, "status", *input.Status, "")
		if err != nil {
			return nil, err
		}
		if status != "" {
			p["status"] = string(status)
		}
	}
	setIf(p, "doc_type_id", input.DocTypeID)
	setIf(p, "name", input.Name)
	setIf(p, "file_path", input.FilePath)
	setIf(p, "submitted_by", input.SubmittedBy)
	setIf(p, "reviewed_by", input.ReviewedBy)
	setIf(p, "submitted_at", input.SubmittedAt)
	setIf(p, "reviewed_at", input.ReviewedAt)
	setIf(p, "review_notes", input.ReviewNotes)

	if err := r.updateRow(ctx, &models.Document{}, "id", id, p, "update document"); err != nil {
		return nil, err
	}
	return r.reload(ctx, id, "update document")
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, &models.Document{}, "id", id, "delete document")
}

func (r *DocumentRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Document, error) {
	doc, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return doc, nil
}
