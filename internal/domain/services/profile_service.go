package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

type ProfileService struct {
	base
	profiles repositories.ProfileRepository
}

func NewProfileService(profiles repositories.ProfileRepository, deps Deps) *ProfileService {
	return &ProfileService{
		base:     newBase(deps, "profile_service"),
		profiles: profiles,
	}
}

func (s *ProfileService) List(ctx context.Context, filters repositories.ProfileFilters) ([]entities.Profile, error) {
	return Fetch(ctx, s.queries, querykeys.Profiles.Lists(filters), func(ctx context.Context) ([]entities.Profile, error) {
		return s.profiles.List(ctx, filters)
	})
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Profiles.Detail(id.String()), func(ctx context.Context) (*entities.Profile, error) {
		return s.profiles.GetByID(ctx, id)
	})
}

// Ensure creates the profile mirror for an authenticated user on first
// sight. It is not a user-facing mutation and emits no notification.
func (s *ProfileService) Ensure(ctx context.Context, input repositories.CreateProfileInput) (*entities.Profile, error) {
	existing, err := s.Get(ctx, input.ID)
	if err != nil || existing != nil {
		return existing, err
	}
	created, err := s.profiles.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.queries.Invalidate(ctx, querykeys.Profiles.All()); err != nil {
		s.logger.Warn("Failed to invalidate profiles", "error", err)
	}
	return created, nil
}

// profileChanged lists what a role change or removal invalidates: the
// profile itself and every list that embeds users.
func profileChanged(fx *cacheEffects, id uuid.UUID) {
	fx.Invalidate(
		querykeys.Profiles.Lists(nil),
		querykeys.Profiles.Detail(id.String()),
		querykeys.Cases.Lists(nil),
		querykeys.Tasks.Lists(nil),
	)
}
