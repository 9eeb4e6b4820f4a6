package postgresql

import (
	"context"
	"sort"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository reads and writes the three task tables. Every operation
// other than List is addressed by (origin, id).
type TaskRepository struct {
	baseRepository
}

func NewTaskRepository(db *database.DB, log *logger.Logger) repositories.TaskRepository {
	return &TaskRepository{baseRepository: newBase(db, log, "tasks")}
}

// taskTable describes where one task variant lives.
type taskTable struct {
	newModel  func() interface{}
	keyColumn string
	preloads  []string
}

var taskTables = map[entities.TaskOrigin]taskTable{
	entities.OriginPredefined: {
		newModel:  func() interface{} { return &models.PredefinedTask{} },
		keyColumn: "predefined_task_id",
		preloads:  []string{"Category", "AssignedUser"},
	},
	entities.OriginCompany: {
		newModel:  func() interface{} { return &models.CompanyTask{} },
		keyColumn: "company_task_id",
		preloads:  []string{"Category", "AssignedUser", "Company"},
	},
	entities.OriginCase: {
		newModel:  func() interface{} { return &models.CaseTask{} },
		keyColumn: "case_task_id",
		preloads:  []string{"Category", "AssignedUser", "Case.Company"},
	},
}

func tableFor(origin entities.TaskOrigin) (taskTable, error) {
	t, ok := taskTables[origin]
	if !ok {
		return taskTable{}, &repositories.ValidationError{
			Message: "origin_type must be one of PREDEFINED, COMPANY or CASE",
			Fields:  map[string]string{"origin_type": "invalid value"},
		}
	}
	return t, nil
}

func (r *TaskRepository) query(ctx context.Context, t taskTable) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range t.preloads {
		q = q.Preload(p)
	}
	return q
}

// origins picks the tables a filter bag can match. A case filter only
// matches case tasks and a company filter only company tasks.
func (r *TaskRepository) origins(filters repositories.TaskFilters) []entities.TaskOrigin {
	candidates := entities.TaskOrigins
	if filters.Origin != "" {
		candidates = []entities.TaskOrigin{filters.Origin}
	}

	var out []entities.TaskOrigin
	for _, o := range candidates {
		if filters.CaseID != nil && o != entities.OriginCase {
			continue
		}
		if filters.CompanyID != nil && o != entities.OriginCompany {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (r *TaskRepository) List(ctx context.Context, filters repositories.TaskFilters) ([]entities.Task, error) {
	if filters.Origin != "" {
		if _, err := tableFor(filters.Origin); err != nil {
			return nil, err
		}
	}

	tr := lenient(r.logger)
	var out []entities.Task
	for _, origin := range r.origins(filters) {
		t := taskTables[origin]
		q := r.query(ctx, t).Model(t.newModel())
		if filters.CaseID != nil {
			q = q.Where("case_id = ?", *filters.CaseID)
		}
		if filters.CompanyID != nil {
			q = q.Where("company_id = ?", *filters.CompanyID)
		}
		if filters.AssignedTo != nil {
			q = q.Where("assigned_to = ?", *filters.AssignedTo)
		}
		if filters.CategoryID != nil {
			q = q.Where("category_id = ?", *filters.CategoryID)
		}
		if filters.Status != "" {
			q = q.Where("status = ?", string(filters.Status))
		}
		q = q.Order("created_at DESC")

		switch origin {
		case entities.OriginPredefined:
			var rows []models.PredefinedTask
			if err := q.Find(&rows).Error; err != nil {
				return nil, repositories.WrapStoreError("list predefined tasks", err)
			}
			for i := range rows {
				out = append(out, tr.predefinedTask(&rows[i]))
			}
		case entities.OriginCompany:
			var rows []models.CompanyTask
			if err := q.Find(&rows).Error; err != nil {
				return nil, repositories.WrapStoreError("list company tasks", err)
			}
			for i := range rows {
				out = append(out, tr.companyTask(&rows[i]))
			}
		case entities.OriginCase:
			var rows []models.CaseTask
			if err := q.Find(&rows).Error; err != nil {
				return nil, repositories.WrapStoreError("list case tasks", err)
			}
			for i := range rows {
				out = append(out, tr.caseTask(&rows[i]))
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Common().CreatedAt.After(out[j].Common().CreatedAt)
	})
	if out == nil {
		out = []entities.Task{}
	}
	return out, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) (entities.Task, error) {
	return r.get(ctx, origin, id, lenient(r.logger))
}

func (r *TaskRepository) get(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, tr *transformer) (entities.Task, error) {
	t, err := tableFor(origin)
	if err != nil {
		return nil, err
	}
	q := r.query(ctx, t).Where(t.keyColumn+" = ?", id)

	var task entities.Task
	switch origin {
	case entities.OriginPredefined:
		var row models.PredefinedTask
		err = q.First(&row).Error
		if err == nil {
			task = tr.predefinedTask(&row)
		}
	case entities.OriginCompany:
		var row models.CompanyTask
		err = q.First(&row).Error
		if err == nil {
			task = tr.companyTask(&row)
		}
	case entities.OriginCase:
		var row models.CaseTask
		err = q.First(&row).Error
		if err == nil {
			task = tr.caseTask(&row)
		}
	}
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get task", err)
	}
	if tr.err != nil {
		return nil, tr.err
	}
	return task, nil
}

func (r *TaskRepository) Create(ctx context.Context, input repositories.CreateTaskInput) (entities.Task, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	if _, err := tableFor(input.Origin); err != nil {
		return nil, err
	}
	status, err := inputEnum(entities.TaskStatuses, "status", input.Status, entities.TaskNotStarted)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == 0 {
		priority = defaultPriority
	}
	cols := models.TaskColumns{
		Title:       input.Title,
		Description: input.Description,
		Status:      string(status),
		Priority:    priority,
		DueDate:     input.DueDate,
		CategoryID:  input.CategoryID,
		AssignedTo:  input.AssignedTo,
	}

	var (
		row interface{}
		id  func() uuid.UUID
	)
	switch input.Origin {
	case entities.OriginPredefined:
		m := &models.PredefinedTask{TaskColumns: cols}
		row, id = m, func() uuid.UUID { return m.PredefinedTaskID }
	case entities.OriginCompany:
		if input.CompanyID == nil {
			return nil, &repositories.ValidationError{
				Message: "company_id is required for COMPANY tasks",
				Fields:  map[string]string{"company_id": "company_id is required"},
			}
		}
		m := &models.CompanyTask{CompanyID: *input.CompanyID, TaskColumns: cols}
		row, id = m, func() uuid.UUID { return m.CompanyTaskID }
	case entities.OriginCase:
		if input.CaseID == nil {
			return nil, &repositories.ValidationError{
				Message: "case_id is required for CASE tasks",
				Fields:  map[string]string{"case_id": "case_id is required"},
			}
		}
		m := &models.CaseTask{CaseID: *input.CaseID, TaskColumns: cols}
		row, id = m, func() uuid.UUID { return m.CaseTaskID }
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, repositories.WrapStoreError("create task", err)
	}

	r.logger.Info("Task created", "task_id", id(), "origin_type", input.Origin)
	return r.reload(ctx, input.Origin, id(), "create task")
}

func (r *TaskRepository) Update(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, input repositories.UpdateTaskInput) (entities.Task, error) {
	t, err := tableFor(origin)
	if err != nil {
		return nil, err
	}
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	if input.Status != nil {
		status, err := inputEnum(entities.TaskStatuses, "status", *input.Status, "")
		if err != nil {
			return nil, err
		}
		if status != "" {
			p["status"] = string(status)
		}
	}
	setIf(p, "title", input.Title)
	setIf(p, "description", input.Description)
	setIf(p, "priority", input.Priority)
	setIf(p, "due_date", input.DueDate)
	setIf(p, "category_id", input.CategoryID)
	setIf(p, "assigned_to", input.AssignedTo)

	if err := r.updateRow(ctx, t.newModel(), t.keyColumn, id, p, "update task"); err != nil {
		return nil, err
	}
	return r.reload(ctx, origin, id, "update task")
}

func (r *TaskRepository) Delete(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID) error {
	t, err := tableFor(origin)
	if err != nil {
		return err
	}
	return r.deleteRow(ctx, t.newModel(), t.keyColumn, id, "delete task")
}

func (r *TaskRepository) reload(ctx context.Context, origin entities.TaskOrigin, id uuid.UUID, op string) (entities.Task, error) {
	task, err := r.get(ctx, origin, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return task, nil
}
