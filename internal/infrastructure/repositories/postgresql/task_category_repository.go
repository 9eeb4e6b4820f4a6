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

type TaskCategoryRepository struct {
	baseRepository
}

func NewTaskCategoryRepository(db *database.DB, log *logger.Logger) repositories.TaskCategoryRepository {
	return &TaskCategoryRepository{baseRepository: newBase(db, log, "task_categories")}
}

func (r *TaskCategoryRepository) List(ctx context.Context) ([]entities.TaskCategory, error) {
	var rows []models.TaskCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list task categories", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.TaskCategory, 0, len(rows))
	for i := range rows {
		out = append(out, tr.taskCategory(&rows[i]))
	}
	return out, nil
}

func (r *TaskCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TaskCategory, error) {
	var row models.TaskCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get task category", err)
	}
	category := lenient(r.logger).taskCategory(&row)
	return &category, nil
}

func (r *TaskCategoryRepository) Create(ctx context.Context, input repositories.CreateTaskCategoryInput) (*entities.TaskCategory, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	row := models.TaskCategory{Name: input.Name, Description: input.Description}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create task category", err)
	}
	return r.reload(ctx, row.ID, "create task category")
}

func (r *TaskCategoryRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateTaskCategoryInput) (*entities.TaskCategory, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	setIf(p, "name", input.Name)
	setIf(p, "description", input.Description)

	if err := r.updateRow(ctx, &models.TaskCategory{}, "id", id, p, "update task category"); err != nil {
		return nil, err
	}
	return r.reload(ctx, id, "update task category")
}

func (r *TaskCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, &models.TaskCategory{}, "id", id, "delete task category")
}

func (r *TaskCategoryRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.TaskCategory, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return category, nil
}
