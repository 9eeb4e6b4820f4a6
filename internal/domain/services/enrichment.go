package services

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultEnrichmentLimit caps how many cases are enriched per list.
const DefaultEnrichmentLimit = 20

// EnrichedCase is a case plus the aggregates shown on the company dashboard.
// When Enriched is false only the base record is meaningful.
type EnrichedCase struct {
	entities.Case
	ServiceDetail        *entities.Service `json:"service_detail"`
	TaskCount            int               `json:"task_count"`
	DocumentCount        int               `json:"document_count"`
	PendingDocumentCount int               `json:"pending_document_count"`
	Enriched             bool              `json:"enriched"`
	Err                  string            `json:"error,omitempty"`
}

// EnrichedCases is the composer output. Truncated counts the trailing cases
// that were returned without enrichment because of the cap; Error is the
// first per-case failure in input order.
type EnrichedCases struct {
	Cases     []EnrichedCase `json:"cases"`
	Truncated int            `json:"truncated"`
	Error     string         `json:"error,omitempty"`
}

// Enrich augments cases with service, task and document aggregates. The
// first enrichLimit cases are resolved concurrently; a case whose lookups
// fail comes back as its base record.
func (s *CaseService) Enrich(ctx context.Context, cases []entities.Case) EnrichedCases {
	out := EnrichedCases{Cases: make([]EnrichedCase, len(cases))}
	for i := range cases {
		out.Cases[i] = EnrichedCase{Case: cases[i]}
	}

	limit := len(cases)
	if limit > s.enrichLimit {
		limit = s.enrichLimit
		out.Truncated = len(cases) - limit
		s.logger.Info("Enrichment capped", "total", len(cases), "enriched", limit)
	}

	errs := make([]error, limit)
	var g errgroup.Group
	g.SetLimit(s.enrichLimit)
	for i := 0; i < limit; i++ {
		g.Go(func() error {
			errs[i] = s.enrichOne(ctx, &out.Cases[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		out.Cases[i] = EnrichedCase{Case: cases[i], Err: err.Error()}
		if out.Error == "" {
			out.Error = err.Error()
		}
		s.logger.Warn("Case enrichment failed", "case_id", cases[i].ID, "error", err)
	}
	return out
}

func (s *CaseService) enrichOne(ctx context.Context, ec *EnrichedCase) error {
	caseID := ec.ID
	var (
		service            *entities.Service
		tasks              entities.TaskList
		documents, pending []entities.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		service, err = Fetch(gctx, s.queries, querykeys.Services.Detail(ec.ServiceID.String()), func(ctx context.Context) (*entities.Service, error) {
			return s.catalog.GetService(ctx, ec.ServiceID)
		})
		return err
	})
	g.Go(func() error {
		filters := repositories.TaskFilters{CaseID: &caseID}
		var err error
		tasks, err = Fetch(gctx, s.queries, querykeys.Tasks.Lists(filters), func(ctx context.Context) (entities.TaskList, error) {
			return s.tasks.List(ctx, filters)
		})
		return err
	})
	g.Go(func() error {
		filters := repositories.DocumentFilters{CaseID: &caseID}
		var err error
		documents, err = Fetch(gctx, s.queries, querykeys.Documents.Lists(filters), func(ctx context.Context) ([]entities.Document, error) {
			return s.documents.List(ctx, filters)
		})
		return err
	})
	g.Go(func() error {
		filters := repositories.DocumentFilters{CaseID: &caseID, Statuses: entities.PendingDocumentStatuses}
		var err error
		pending, err = Fetch(gctx, s.queries, querykeys.Documents.Lists(filters), func(ctx context.Context) ([]entities.Document, error) {
			return s.documents.List(ctx, filters)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("case %s: %w", caseID, err)
	}

	ec.ServiceDetail = service
	ec.TaskCount = len(tasks)
	ec.DocumentCount = len(documents)
	ec.PendingDocumentCount = len(pending)
	ec.Enriched = true
	return nil
}

// CompanyCasesEnriched lists a company's cases and enriches them. The
// composed result is cached under the company's enriched key; a result with
// degraded cases is returned but left stale so the next read retries.
func (s *CaseService) CompanyCasesEnriched(ctx context.Context, companyID uuid.UUID) (EnrichedCases, error) {
	if companyID == uuid.Nil {
		return EnrichedCases{Cases: []EnrichedCase{}}, nil
	}

	key := querykeys.EnrichedCases(companyID.String())
	out, err := Fetch(ctx, s.queries, key, func(ctx context.Context) (EnrichedCases, error) {
		cases, err := s.List(ctx, repositories.CaseFilters{CompanyID: &companyID})
		if err != nil {
			return EnrichedCases{}, err
		}
		return s.Enrich(ctx, cases), nil
	})
	if err != nil {
		return out, err
	}

	if out.Error != "" {
		if err := s.queries.Invalidate(ctx, key); err != nil {
			s.logger.Warn("Failed to expire degraded enrichment", "company_id", companyID, "error", err)
		}
	}
	return out, nil
}
