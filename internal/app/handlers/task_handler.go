package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles task and task category HTTP requests. A task is
// addressed by its origin and id, since each origin has its own table.
type TaskHandler struct {
	*BaseHandler
	tasks      *services.TaskService
	categories *services.TaskCategoryService
}

func NewTaskHandler(tasks *services.TaskService, categories *services.TaskCategoryService) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(),
		tasks:       tasks,
		categories:  categories,
	}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks", middleware.StaffOnly())
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:origin/:id", h.GetTask)
		tasks.PUT("/:origin/:id", h.UpdateTask)
		tasks.DELETE("/:origin/:id", h.DeleteTask)
	}

	categories := router.Group("/task-categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", middleware.StaffOnly(), h.CreateCategory)
		categories.PUT("/:id", middleware.StaffOnly(), h.UpdateCategory)
		categories.DELETE("/:id", middleware.StaffOnly(), h.DeleteCategory)
	}
}

// ListTasks merges tasks across origins
// @Summary List tasks
// @Tags tasks
// @Param origin_type query string false "PREDEFINED, COMPANY or CASE"
// @Param case_id query string false "Case (CASE tasks only)"
// @Param company_id query string false "Company (COMPANY tasks only)"
// @Success 200 {array} entities.Task
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.TaskFilters{
		Origin:     queryEnum(q, "origin_type", entities.TaskOrigins),
		CaseID:     q.uuid("case_id"),
		CompanyID:  q.uuid("company_id"),
		AssignedTo: q.uuid("assigned_to"),
		CategoryID: q.uuid("category_id"),
		Status:     queryEnum(q, "status", entities.TaskStatuses),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	origin, id, ok := h.taskAddress(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), origin, id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, task, task != nil, "Task")
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input repositories.CreateTaskInput
	if !h.BindJSON(c, &input) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	origin, id, ok := h.taskAddress(c)
	if !ok {
		return
	}
	var input repositories.UpdateTaskInput
	if !h.BindJSON(c, &input) {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), origin, id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	origin, id, ok := h.taskAddress(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), origin, id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) taskAddress(c *gin.Context) (entities.TaskOrigin, uuid.UUID, bool) {
	origin, ok := entities.ParseEnum(entities.TaskOrigins, c.Param("origin"))
	if !ok {
		h.RespondBadRequest(c, "Invalid task origin, expected PREDEFINED, COMPANY or CASE")
		return "", uuid.Nil, false
	}
	id, ok := h.PathID(c)
	if !ok {
		return "", uuid.Nil, false
	}
	return origin, id, true
}

func (h *TaskHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, categories)
}

func (h *TaskHandler) GetCategory(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, category, category != nil, "Task category")
}

func (h *TaskHandler) CreateCategory(c *gin.Context) {
	var input repositories.CreateTaskCategoryInput
	if !h.BindJSON(c, &input) {
		return
	}

	category, err := h.categories.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, category)
}

func (h *TaskHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdateTaskCategoryInput
	if !h.BindJSON(c, &input) {
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, category)
}

func (h *TaskHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
