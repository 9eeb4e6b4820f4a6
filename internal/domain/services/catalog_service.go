package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

// CatalogService serves the lookup tables behind form selects. They change
// through migrations only, so there are no mutations here.
type CatalogService struct {
	base
	catalog repositories.CatalogRepository
}

func NewCatalogService(catalog repositories.CatalogRepository, deps Deps) *CatalogService {
	return &CatalogService{
		base:    newBase(deps, "catalog_service"),
		catalog: catalog,
	}
}

func (s *CatalogService) Services(ctx context.Context, filters repositories.ServiceFilters) ([]entities.Service, error) {
	return Fetch(ctx, s.queries, querykeys.Services.Lists(filters), func(ctx context.Context) ([]entities.Service, error) {
		return s.catalog.ListServices(ctx, filters)
	})
}

func (s *CatalogService) Service(ctx context.Context, id uuid.UUID) (*entities.Service, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Services.Detail(id.String()), func(ctx context.Context) (*entities.Service, error) {
		return s.catalog.GetService(ctx, id)
	})
}

func (s *CatalogService) ServiceCategories(ctx context.Context) ([]entities.ServiceCategory, error) {
	return Fetch(ctx, s.queries, querykeys.ServiceCategories.Lists(nil), s.catalog.ListServiceCategories)
}

func (s *CatalogService) DocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	return Fetch(ctx, s.queries, querykeys.DocumentTypes.Lists(nil), s.catalog.ListDocumentTypes)
}

func (s *CatalogService) DocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.DocumentTypes.Detail(id.String()), func(ctx context.Context) (*entities.DocumentType, error) {
		return s.catalog.GetDocumentType(ctx, id)
	})
}
