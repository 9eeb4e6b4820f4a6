package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

// CaseService binds case reads to the query cache and runs case writes
// through the mutation runner. It also owns the enriched case views.
type CaseService struct {
	base
	cases     repositories.CaseRepository
	tasks     repositories.TaskRepository
	documents repositories.DocumentRepository
	catalog   repositories.CatalogRepository

	enrichLimit int
}

func NewCaseService(
	cases repositories.CaseRepository,
	tasks repositories.TaskRepository,
	documents repositories.DocumentRepository,
	catalog repositories.CatalogRepository,
	deps Deps,
	enrichLimit int,
) *CaseService {
	if enrichLimit <= 0 {
		enrichLimit = DefaultEnrichmentLimit
	}
	return &CaseService{
		base:        newBase(deps, "case_service"),
		cases:       cases,
		tasks:       tasks,
		documents:   documents,
		catalog:     catalog,
		enrichLimit: enrichLimit,
	}
}

func (s *CaseService) List(ctx context.Context, filters repositories.CaseFilters) ([]entities.Case, error) {
	return Fetch(ctx, s.queries, querykeys.Cases.Lists(filters), func(ctx context.Context) ([]entities.Case, error) {
		return s.cases.List(ctx, filters)
	})
}

// Get returns nil without a store call when id is empty.
func (s *CaseService) Get(ctx context.Context, id uuid.UUID) (*entities.Case, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Cases.Detail(id.String()), func(ctx context.Context) (*entities.Case, error) {
		return s.cases.GetByID(ctx, id)
	})
}

func (s *CaseService) Create(ctx context.Context, input repositories.CreateCaseInput) (*entities.Case, error) {
	op := mutationOp{name: "create case", success: "Case created", failure: "Failed to create case"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Case, error) {
			return s.cases.Create(ctx, input)
		},
		func(c *entities.Case, fx *cacheEffects) {
			fx.Invalidate(querykeys.Cases.Lists(nil))
			caseRelated(fx, c.CompanyID)
		},
	)
}

func (s *CaseService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCaseInput) (*entities.Case, error) {
	op := mutationOp{name: "update case", success: "Case updated", failure: "Failed to update case"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Case, error) {
			return s.cases.Update(ctx, id, input)
		},
		func(c *entities.Case, fx *cacheEffects) {
			fx.Invalidate(querykeys.Cases.Lists(nil), querykeys.Cases.Detail(id.String()))
			caseRelated(fx, c.CompanyID)
		},
	)
}

// Delete removes the case. Its company and dependents are unknown once the
// row is gone, so their namespaces are invalidated wholesale.
func (s *CaseService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete case", success: "Case deleted", failure: "Failed to delete case"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.cases.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Cases.Detail(id.String()))
			fx.Invalidate(
				querykeys.Cases.Lists(nil),
				querykeys.EnrichedCases(""),
				querykeys.Companies.Scoped(querykeys.ScopeDetail),
				querykeys.Documents.Lists(nil),
				querykeys.Payments.Lists(nil),
				querykeys.Tasks.Lists(nil),
				querykeys.Communications.Lists(nil),
			)
		},
	)
	return err
}

func caseRelated(fx *cacheEffects, companyID uuid.UUID) {
	fx.Invalidate(querykeys.EnrichedCases(""))
	if companyID != uuid.Nil {
		fx.Invalidate(querykeys.Companies.Detail(companyID.String()))
	}
}
