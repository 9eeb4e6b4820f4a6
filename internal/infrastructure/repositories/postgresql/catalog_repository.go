package postgresql

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
)

// CatalogRepository serves services, service categories and document types.
// These relations are maintained by staff outside this module.
type CatalogRepository struct {
	baseRepository
}

func NewCatalogRepository(db *database.DB, log *logger.Logger) repositories.CatalogRepository {
	return &CatalogRepository{baseRepository: newBase(db, log, "catalog")}
}

func (r *CatalogRepository) ListServices(ctx context.Context, filters repositories.ServiceFilters) ([]entities.Service, error) {
	query := r.db.WithContext(ctx).Preload("Category").Model(&models.Service{})
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}

	var rows []models.Service
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list services", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Service, 0, len(rows))
	for i := range rows {
		out = append(out, tr.service(&rows[i]))
	}
	return out, nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error) {
	var row models.Service
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get service", err)
	}
	service := lenient(r.logger).service(&row)
	return &service, nil
}

func (r *CatalogRepository) ListServiceCategories(ctx context.Context) ([]entities.ServiceCategory, error) {
	var rows []models.ServiceCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list service categories", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.ServiceCategory, 0, len(rows))
	for i := range rows {
		out = append(out, tr.serviceCategory(&rows[i]))
	}
	return out, nil
}

func (r *CatalogRepository) ListDocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	var rows []models.DocumentType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list document types", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.DocumentType, 0, len(rows))
	for i := range rows {
		out = append(out, tr.documentType(&rows[i]))
	}
	return out, nil
}

func (r *CatalogRepository) GetDocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error) {
	var row models.DocumentType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get document type", err)
	}
	docType := lenient(r.logger).documentType(&row)
	return &docType, nil
}
