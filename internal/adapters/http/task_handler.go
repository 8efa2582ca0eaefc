package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
	"github.com/Yash-Thio/IETE-ToDo/internal/session"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	aggregator *services.TaskAggregator
	logger     *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(aggregator *services.TaskAggregator, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// ListTasks returns the tasks of one list
// @Summary Tasks in a list
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param include_completed query bool false "Include completed tasks"
// @Success 200 {object} ports.TasksResponse
// @Failure 502 {object} ports.TasksResponse
// @Router /api/v1/lists/{id}/tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	includeCompleted := false
	if raw := c.QueryParam("include_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid include_completed parameter")
		}
		includeCompleted = v
	}

	userID, _ := session.UserID(c.Request().Context())
	tasks, err := h.aggregator.FetchTasksForList(c.Request().Context(), userID, c.Param("id"), includeCompleted)
	return respondTasks(c, tasks, err)
}

// CategoryTasks returns the tasks in one dashboard category
// @Summary Tasks by category
// @Tags tasks
// @Security BearerAuth
// @Param category path string true "today, scheduled, all, flagged or completed"
// @Param tz query string false "IANA time zone for today"
// @Success 200 {object} ports.TasksResponse
// @Failure 400 {object} ports.MessageResponse
// @Failure 502 {object} ports.TasksResponse
// @Router /api/v1/categories/{category}/tasks [get]
func (h *TaskHandler) CategoryTasks(c echo.Context) error {
	category, err := entities.ParseCategory(c.Param("category"))
	if err != nil {
		return respondError(c, err)
	}
	loc, err := locationParam(c)
	if err != nil {
		return err
	}

	userID, _ := session.UserID(c.Request().Context())
	tasks, err := h.aggregator.FetchTasksByCategory(c.Request().Context(), userID, category, loc)
	return respondTasks(c, tasks, err)
}

// UnscheduledTasks returns the incomplete tasks that have no due date
// @Summary Unscheduled tasks
// @Tags tasks
// @Security BearerAuth
// @Success 200 {object} ports.TasksResponse
// @Failure 502 {object} ports.TasksResponse
// @Router /api/v1/unscheduled/tasks [get]
func (h *TaskHandler) UnscheduledTasks(c echo.Context) error {
	userID, _ := session.UserID(c.Request().Context())
	tasks, err := h.aggregator.FetchUnscheduledTasks(c.Request().Context(), userID)
	return respondTasks(c, tasks, err)
}

// Summary returns the five dashboard counters
// @Summary Dashboard counts
// @Tags tasks
// @Security BearerAuth
// @Param tz query string false "IANA time zone for today"
// @Success 200 {object} entities.SummaryCounts
// @Failure 502 {object} ports.MessageResponse
// @Router /api/v1/summary [get]
func (h *TaskHandler) Summary(c echo.Context) error {
	loc, err := locationParam(c)
	if err != nil {
		return err
	}

	userID, _ := session.UserID(c.Request().Context())
	counts, err := h.aggregator.ComputeSummaryCounts(c.Request().Context(), userID, loc)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, counts)
}

// CreateTask creates a new task
// @Summary Create a task
// @Tags tasks
// @Security BearerAuth
// @Param task body ports.CreateTaskRequest true "Task"
// @Success 201 {object} ports.CreatedResponse
// @Failure 400 {object} ports.MessageResponse
// @Failure 404 {object} ports.MessageResponse
// @Failure 502 {object} ports.MessageResponse
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := session.UserID(c.Request().Context())
	id, err := h.aggregator.CreateTask(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, ports.CreatedResponse{ID: id})
}

// GetTask returns one task
// @Summary Get a task
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.MessageResponse
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID, _ := session.UserID(c.Request().Context())
	task, err := h.aggregator.GetTask(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// SetCompletion marks a task completed or active
// @Summary Set task completion
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body ports.SetCompletionRequest true "Completion state"
// @Success 204
// @Failure 404 {object} ports.MessageResponse
// @Router /api/v1/tasks/{id}/completion [patch]
func (h *TaskHandler) SetCompletion(c echo.Context) error {
	var req ports.SetCompletionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := session.UserID(c.Request().Context())
	if err := h.aggregator.SetTaskCompletion(c.Request().Context(), userID, c.Param("id"), *req.Completed); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetFlag sets or clears a task's flag
// @Summary Set task flag
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body ports.SetFlagRequest true "Flag state"
// @Success 204
// @Failure 404 {object} ports.MessageResponse
// @Router /api/v1/tasks/{id}/flag [patch]
func (h *TaskHandler) SetFlag(c echo.Context) error {
	var req ports.SetFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := session.UserID(c.Request().Context())
	if err := h.aggregator.SetTaskFlag(c.Request().Context(), userID, c.Param("id"), *req.Flagged); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
