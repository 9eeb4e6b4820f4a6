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

// ProfileRepository implements repositories.ProfileRepository using GORM
type ProfileRepository struct {
	baseRepository
}

func NewProfileRepository(db *database.DB, log *logger.Logger) repositories.ProfileRepository {
	return &ProfileRepository{baseRepository: newBase(db, log, "profiles")}
}

func (r *ProfileRepository) List(ctx context.Context, filters repositories.ProfileFilters) ([]entities.Profile, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if filters.Role != "" {
		query = query.Where("role = ?", string(filters.Role))
	}

	var rows []models.Profile
	if err := query.Order("full_name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list profiles", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Profile, 0, len(rows))
	for i := range rows {
		out = append(out, tr.profile(&rows[i]))
	}
	return out, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *ProfileRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Profile, error) {
	var row models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get profile", err)
	}
	profile := tr.profile(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, input repositories.CreateProfileInput) (*entities.Profile, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	role, err := inputEnum(entities.UserRoles, "role", input.Role, entities.RoleClient)
	if err != nil {
		return nil, err
	}

	row := models.Profile{
		ID:       input.ID,
		Email:    input.Email,
		FullName: input.FullName,
		Role:     string(role),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create profile", err)
	}

	r.logger.Info("Profile created", "user_id", row.ID, "role", row.Role)
	return r.reload(ctx, row.ID, "create profile")
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) (*entities.Profile, error) {
	if role == "" {
		return nil, repositories.NewValidationError("role is required")
	}
	if _, err := inputEnum(entities.UserRoles, "role", role, ""); err != nil {
		return nil, err
	}

	if err := r.updateRow(ctx, &models.Profile{}, "id", id, patch{"role": string(role)}, "update profile role"); err != nil {
		return nil, err
	}
	r.logger.Info("Profile role updated", "user_id", id, "role", role)
	return r.reload(ctx, id, "update profile role")
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, &models.Profile{}, "id", id, "delete profile")
}

func (r *ProfileRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Profile, error) {
	profile, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return profile, nil
}
