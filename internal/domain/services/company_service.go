package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

type CompanyService struct {
	base
	companies repositories.CompanyRepository
}

func NewCompanyService(companies repositories.CompanyRepository, deps Deps) *CompanyService {
	return &CompanyService{
		base:      newBase(deps, "company_service"),
		companies: companies,
	}
}

func (s *CompanyService) List(ctx context.Context, filters repositories.CompanyFilters) ([]entities.Company, error) {
	return Fetch(ctx, s.queries, querykeys.Companies.Lists(filters), func(ctx context.Context) ([]entities.Company, error) {
		return s.companies.List(ctx, filters)
	})
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Companies.Detail(id.String()), func(ctx context.Context) (*entities.Company, error) {
		return s.companies.GetByID(ctx, id)
	})
}

// ForUser resolves the company a portal user belongs to, nil when none.
func (s *CompanyService) ForUser(ctx context.Context, userID uuid.UUID) (*entities.Company, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.CompanyByUser(userID.String()), func(ctx context.Context) (*entities.Company, error) {
		return s.companies.GetByUserID(ctx, userID)
	})
}

func (s *CompanyService) Create(ctx context.Context, input repositories.CreateCompanyInput) (*entities.Company, error) {
	op := mutationOp{name: "create company", success: "Company created", failure: "Failed to create company"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Company, error) {
			return s.companies.Create(ctx, input)
		},
		func(_ *entities.Company, fx *cacheEffects) {
			// a new primary contact may now resolve to this company
			fx.Invalidate(querykeys.Companies.Lists(nil), querykeys.CompanyByUser(""))
		},
	)
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCompanyInput) (*entities.Company, error) {
	op := mutationOp{name: "update company", success: "Company updated", failure: "Failed to update company"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Company, error) {
			return s.companies.Update(ctx, id, input)
		},
		func(_ *entities.Company, fx *cacheEffects) {
			fx.Invalidate(
				querykeys.Companies.Lists(nil),
				querykeys.Companies.Detail(id.String()),
				querykeys.CompanyByUser(""),
			)
		},
	)
}

// Delete removes the company. The ids of its dependents are unknown here,
// so everything hanging off it is invalidated as a whole. Documents and
// payments go with its cases.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete company", success: "Company deleted", failure: "Failed to delete company"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.companies.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Companies.Detail(id.String()))
			fx.Invalidate(
				querykeys.Companies.Lists(nil),
				querykeys.CompanyByUser(""),
				querykeys.Cases.All(),
				querykeys.Tasks.All(),
				querykeys.Communications.All(),
				querykeys.Documents.Lists(nil),
				querykeys.Payments.Lists(nil),
			)
		},
	)
	return err
}
