package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

var ErrInsufficientPrivileges = errors.New("insufficient privileges")

// AdminService runs the two privileged user operations. The caller's role is
// read from the stored profile, never from the token.
type AdminService struct {
	base
	profiles repositories.ProfileRepository
	auth     SupabaseAuthService
}

func NewAdminService(profiles repositories.ProfileRepository, auth SupabaseAuthService, deps Deps) *AdminService {
	return &AdminService{
		base:     newBase(deps, "admin_service"),
		profiles: profiles,
		auth:     auth,
	}
}

// DeleteUser removes the auth user and then its profile row.
func (s *AdminService) DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error {
	op := mutationOp{name: "delete user", success: "User deleted", failure: "Failed to delete user"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			if err := s.requireAdmin(ctx, callerID); err != nil {
				return err
			}
			if userID == uuid.Nil {
				return repositories.NewValidationError("user_id is required")
			}
			if userID == callerID {
				return repositories.NewValidationError("administrators cannot delete their own account")
			}

			if err := s.auth.AdminDeleteUser(ctx, userID); err != nil {
				return fmt.Errorf("failed to delete auth user: %w", err)
			}
			if err := s.profiles.Delete(ctx, userID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return err
			}

			s.logger.Info("User deleted", "user_id", userID, "deleted_by", callerID)
			return nil
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Profiles.Detail(userID.String()))
			profileChanged(fx, userID)
		},
	)
	return err
}

// UpdateUserRole stores the new role and mirrors it into the auth user's
// app metadata.
func (s *AdminService) UpdateUserRole(ctx context.Context, callerID, userID uuid.UUID, role string) (*entities.Profile, error) {
	op := mutationOp{name: "update user role", success: "Role updated", failure: "Failed to update role"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Profile, error) {
			if err := s.requireAdmin(ctx, callerID); err != nil {
				return nil, err
			}
			if userID == uuid.Nil {
				return nil, repositories.NewValidationError("user_id is required")
			}
			parsed, ok := entities.ParseEnum(entities.UserRoles, role)
			if !ok {
				return nil, repositories.NewValidationError("invalid role %q", role)
			}

			profile, err := s.profiles.UpdateRole(ctx, userID, parsed)
			if err != nil {
				return nil, err
			}
			if _, err := s.auth.AdminUpdateUser(ctx, userID, map[string]interface{}{
				"app_metadata": map[string]interface{}{"role": string(parsed)},
			}); err != nil {
				// the profile row is authoritative for authorization
				s.logger.Warn("Failed to mirror role into auth metadata", "user_id", userID, "error", err)
			}

			s.logger.Info("User role updated", "user_id", userID, "role", parsed, "updated_by", callerID)
			return profile, nil
		},
		func(_ *entities.Profile, fx *cacheEffects) {
			profileChanged(fx, userID)
		},
	)
}

func (s *AdminService) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	caller, err := s.profiles.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller == nil || caller.Role != entities.RoleAdmin {
		return ErrInsufficientPrivileges
	}
	return nil
}
