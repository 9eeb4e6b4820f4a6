package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

type CommunicationService struct {
	base
	communications repositories.CommunicationRepository
}

func NewCommunicationService(communications repositories.CommunicationRepository, deps Deps) *CommunicationService {
	return &CommunicationService{
		base:           newBase(deps, "communication_service"),
		communications: communications,
	}
}

// List validates the filter bag before touching the cache, so an invalid
// combination never becomes a cache key.
func (s *CommunicationService) List(ctx context.Context, filters repositories.CommunicationFilters) ([]entities.Communication, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return Fetch(ctx, s.queries, querykeys.Communications.Lists(filters), func(ctx context.Context) ([]entities.Communication, error) {
		return s.communications.List(ctx, filters)
	})
}

func (s *CommunicationService) Get(ctx context.Context, id uuid.UUID) (*entities.Communication, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Communications.Detail(id.String()), func(ctx context.Context) (*entities.Communication, error) {
		return s.communications.GetByID(ctx, id)
	})
}

func (s *CommunicationService) Create(ctx context.Context, input repositories.CreateCommunicationInput) (*entities.Communication, error) {
	op := mutationOp{name: "create communication", success: "Message sent", failure: "Failed to send message"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Communication, error) {
			return s.communications.Create(ctx, input)
		},
		func(_ *entities.Communication, fx *cacheEffects) {
			// covers list({case_id}), list({company_id}), list({task_id}) and the feed
			fx.Invalidate(querykeys.Communications.Lists(nil))
		},
	)
}

func (s *CommunicationService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCommunicationInput) (*entities.Communication, error) {
	op := mutationOp{name: "update communication", success: "Message updated", failure: "Failed to update message"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Communication, error) {
			return s.communications.Update(ctx, id, input)
		},
		func(_ *entities.Communication, fx *cacheEffects) {
			fx.Invalidate(querykeys.Communications.Lists(nil), querykeys.Communications.Detail(id.String()))
		},
	)
}

// MarkRead is the portal's "mark as read" shortcut.
func (s *CommunicationService) MarkRead(ctx context.Context, id uuid.UUID) (*entities.Communication, error) {
	read := true
	return s.Update(ctx, id, repositories.UpdateCommunicationInput{Read: &read})
}

func (s *CommunicationService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete communication", success: "Message deleted", failure: "Failed to delete message"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.communications.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Communications.Detail(id.String()))
			fx.Invalidate(querykeys.Communications.Lists(nil))
		},
	)
	return err
}
