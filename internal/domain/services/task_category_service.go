package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

type TaskCategoryService struct {
	base
	categories repositories.TaskCategoryRepository
}

func NewTaskCategoryService(categories repositories.TaskCategoryRepository, deps Deps) *TaskCategoryService {
	return &TaskCategoryService{
		base:       newBase(deps, "task_category_service"),
		categories: categories,
	}
}

func (s *TaskCategoryService) List(ctx context.Context) ([]entities.TaskCategory, error) {
	return Fetch(ctx, s.queries, querykeys.TaskCategories.Lists(nil), s.categories.List)
}

func (s *TaskCategoryService) Get(ctx context.Context, id uuid.UUID) (*entities.TaskCategory, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.TaskCategories.Detail(id.String()), func(ctx context.Context) (*entities.TaskCategory, error) {
		return s.categories.GetByID(ctx, id)
	})
}

func (s *TaskCategoryService) Create(ctx context.Context, input repositories.CreateTaskCategoryInput) (*entities.TaskCategory, error) {
	op := mutationOp{name: "create task category", success: "Category created", failure: "Failed to create category"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.TaskCategory, error) {
			return s.categories.Create(ctx, input)
		},
		func(_ *entities.TaskCategory, fx *cacheEffects) {
			fx.Invalidate(querykeys.TaskCategories.Lists(nil), querykeys.Tasks.Lists(nil))
		},
	)
}

func (s *TaskCategoryService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateTaskCategoryInput) (*entities.TaskCategory, error) {
	op := mutationOp{name: "update task category", success: "Category updated", failure: "Failed to update category"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.TaskCategory, error) {
			return s.categories.Update(ctx, id, input)
		},
		func(_ *entities.TaskCategory, fx *cacheEffects) {
			// tasks embed their category
			fx.Invalidate(
				querykeys.TaskCategories.Lists(nil),
				querykeys.TaskCategories.Detail(id.String()),
				querykeys.Tasks.Lists(nil),
			)
		},
	)
}

func (s *TaskCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete task category", success: "Category deleted", failure: "Failed to delete category"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.categories.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.TaskCategories.Detail(id.String()))
			fx.Invalidate(querykeys.TaskCategories.Lists(nil), querykeys.Tasks.Lists(nil))
		},
	)
	return err
}
