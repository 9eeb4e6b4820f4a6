package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

// TaskService serves the three task tables as one union. Detail keys carry
// the origin next to the id since ids are only unique per table.
type TaskService struct {
	base
	tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository, deps Deps) *TaskService {
	return &TaskService{
		base:  newBase(deps, "task_service"),
		tasks: tasks,
	}
}

func (s *TaskService) List(ctx context.Context, filters repositories.TaskFilters) ([]entities.Task, error) {
	return Fetch(ctx, s.queries, querykeys.Tasks.Lists(filters), func(ctx context.Context) (entities.TaskList, error) {
		return s.tasks.List(ctx, filters)
	})
}

func (s *TaskService) Get(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) (entities.Task, error) {
	if id == uuid.Nil || origin == "" {
		return nil, nil
	}
	item, err := Fetch(ctx, s.queries, taskDetailKey(origin, id), func(ctx context.Context) (entities.TaskItem, error) {
		t, err := s.tasks.GetByID(ctx, origin, id)
		return entities.TaskItem{Task: t}, err
	})
	return item.Task, err
}

func (s *TaskService) Create(ctx context.Context, input repositories.CreateTaskInput) (entities.Task, error) {
	op := mutationOp{name: "create task", success: "Task created", failure: "Failed to create task"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (entities.Task, error) {
			return s.tasks.Create(ctx, input)
		},
		func(t entities.Task, fx *cacheEffects) {
			fx.Invalidate(querykeys.Tasks.Lists(nil))
			taskRelated(fx, t.Origin(), entities.TaskParentID(t))
		},
	)
}

func (s *TaskService) Update(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, input repositories.UpdateTaskInput) (entities.Task, error) {
	op := mutationOp{name: "update task", success: "Task updated", failure: "Failed to update task"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (entities.Task, error) {
			return s.tasks.Update(ctx, origin, id, input)
		},
		func(t entities.Task, fx *cacheEffects) {
			fx.Invalidate(querykeys.Tasks.Lists(nil), taskDetailKey(origin, id))
			taskRelated(fx, t.Origin(), entities.TaskParentID(t))
		},
	)
}

func (s *TaskService) Delete(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) error {
	op := mutationOp{name: "delete task", success: "Task deleted", failure: "Failed to delete task"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.tasks.Delete(ctx, origin, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(taskDetailKey(origin, id))
			fx.Invalidate(querykeys.Tasks.Lists(nil))
			taskRelated(fx, origin, nil)
		},
	)
	return err
}

func taskDetailKey(origin entities.TaskOrigin, id uuid.UUID) querykeys.Key {
	return querykeys.Tasks.Detail(string(origin), id.String())
}

// taskRelated invalidates the parent's detail, or every detail of the
// parent's entity when the parent id is unknown.
func taskRelated(fx *cacheEffects, origin entities.TaskOrigin, parentID *uuid.UUID) {
	fx.Invalidate(querykeys.EnrichedCases(""))

	var parent querykeys.Builder
	switch origin {
	case entities.OriginCase:
		parent = querykeys.Cases
	case entities.OriginCompany:
		parent = querykeys.Companies
	default:
		return
	}
	if parentID != nil {
		fx.Invalidate(parent.Detail(parentID.String()))
	} else {
		fx.Invalidate(parent.Scoped(querykeys.ScopeDetail))
	}
}
