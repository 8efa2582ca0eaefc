package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/metrics"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// maxListQueries caps concurrent per-list queries during fan-out.
const maxListQueries = 8

// AggregatorConfig tunes a TaskAggregator. Zero values fall back to
// defaults: no per-query deadline, the process time zone and time.Now.
type AggregatorConfig struct {
	QueryTimeout time.Duration
	Location     *time.Location
	Clock        func() time.Time
}

// TaskAggregator serves per-list and per-category task views, dashboard
// counts and task mutations on top of the persistence gateway.
type TaskAggregator struct {
	lists    ports.ListRepository
	tasks    ports.TaskRepository
	logger   *logger.Logger
	metrics  *metrics.Recorder
	timeout  time.Duration
	location *time.Location
	now      func() time.Time
}

// NewTaskAggregator creates a new task aggregator
func NewTaskAggregator(lists ports.ListRepository, tasks ports.TaskRepository, log *logger.Logger, recorder *metrics.Recorder, cfg AggregatorConfig) *TaskAggregator {
	a := &TaskAggregator{
		lists:    lists,
		tasks:    tasks,
		logger:   log.WithComponent("aggregator"),
		metrics:  recorder,
		timeout:  cfg.QueryTimeout,
		location: cfg.Location,
		now:      cfg.Clock,
	}
	if a.location == nil {
		a.location = time.Local
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Location returns the zone used when a caller names none
func (a *TaskAggregator) Location() *time.Location {
	return a.location
}

// FetchTasksForList returns the tasks of one list. Completed tasks are left
// out unless includeCompleted is set. On failure the result is empty and
// the error is returned alongside it.
func (a *TaskAggregator) FetchTasksForList(ctx context.Context, userID, listID string, includeCompleted bool) ([]entities.Task, error) {
	if userID == "" {
		return []entities.Task{}, entities.ErrNotAuthenticated
	}

	filter := ports.TaskFilter{UserID: userID, ListID: &listID}
	if !includeCompleted {
		filter.Completed = ports.BoolPtr(false)
	}

	tasks, err := a.queryTasks(ctx, "list tasks", filter)
	if err != nil {
		a.logger.Errorw("Failed to fetch tasks for list", "user_id", userID, "list_id", listID, "error", err)
		return []entities.Task{}, err
	}

	entities.SortTasks(tasks)
	return tasks, nil
}

// FetchTasksByCategory returns the tasks in one dashboard category. loc
// decides the day used by "today"; nil means the configured zone.
func (a *TaskAggregator) FetchTasksByCategory(ctx context.Context, userID string, category entities.Category, loc *time.Location) ([]entities.Task, error) {
	if userID == "" {
		return []entities.Task{}, entities.ErrNotAuthenticated
	}
	if !category.Valid() {
		return []entities.Task{}, entities.ErrInvalidCategory
	}

	day := a.dayWindow(loc)
	var (
		tasks []entities.Task
		err   error
	)

	switch category {
	case entities.CategoryToday:
		tasks, err = a.queryTasks(ctx, "list tasks due today", ports.TaskFilter{
			UserID:    userID,
			DueFrom:   &day.Start,
			DueBefore: &day.End,
		})
	case entities.CategoryScheduled:
		tasks, err = a.queryTasks(ctx, "list incomplete tasks", ports.TaskFilter{
			UserID:    userID,
			Completed: ports.BoolPtr(false),
		})
	case entities.CategoryAll:
		tasks, err = a.fanOut(ctx, userID, ports.BoolPtr(false))
	case entities.CategoryFlagged:
		tasks, err = a.queryTasks(ctx, "list flagged tasks", ports.TaskFilter{
			UserID:  userID,
			Flagged: ports.BoolPtr(true),
		})
	case entities.CategoryCompleted:
		tasks, err = a.queryTasks(ctx, "list completed tasks", ports.TaskFilter{
			UserID:    userID,
			Completed: ports.BoolPtr(true),
		})
	}
	if err != nil {
		a.logger.Errorw("Failed to fetch tasks by category", "user_id", userID, "category", category, "error", err)
		return []entities.Task{}, err
	}

	a.metrics.ObserveCategoryRead(string(category))

	// The store narrows the candidates; the predicate has the final say.
	out := entities.FilterByCategory(tasks, category, day)
	entities.SortTasks(out)
	return out, nil
}

// FetchUnscheduledTasks returns the user's incomplete tasks with no due
// date. It is a standalone view; the summary counts do not include it.
func (a *TaskAggregator) FetchUnscheduledTasks(ctx context.Context, userID string) ([]entities.Task, error) {
	if userID == "" {
		return []entities.Task{}, entities.ErrNotAuthenticated
	}

	tasks, err := a.queryTasks(ctx, "list unscheduled tasks", ports.TaskFilter{
		UserID:    userID,
		Completed: ports.BoolPtr(false),
	})
	if err != nil {
		a.logger.Errorw("Failed to fetch unscheduled tasks", "user_id", userID, "error", err)
		return []entities.Task{}, err
	}

	out := make([]entities.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].IsUnscheduled() {
			out = append(out, tasks[i])
		}
	}
	entities.SortTasks(out)
	return out, nil
}

// ComputeSummaryCounts counts every category from a single snapshot of the
// user's tasks. Any failed sub-query fails the whole call.
func (a *TaskAggregator) ComputeSummaryCounts(ctx context.Context, userID string, loc *time.Location) (entities.SummaryCounts, error) {
	if userID == "" {
		return entities.SummaryCounts{}, entities.ErrNotAuthenticated
	}

	day := a.dayWindow(loc)
	tasks, err := a.fanOut(ctx, userID, nil)
	if err != nil {
		a.logger.Errorw("Failed to compute summary counts", "user_id", userID, "error", err)
		return entities.SummaryCounts{}, err
	}

	return entities.CountByCategory(tasks, day), nil
}

// CreateTask stores a new incomplete task and returns its ID.
func (a *TaskAggregator) CreateTask(ctx context.Context, userID string, req ports.CreateTaskRequest) (string, error) {
	if userID == "" {
		return "", entities.ErrNotAuthenticated
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", entities.ErrEmptyTitle
	}

	if _, err := a.getList(ctx, userID, req.ListID); err != nil {
		return "", err
	}

	task := &entities.Task{
		UserID:      userID,
		ListID:      req.ListID,
		Title:       title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Flagged:     req.Flagged,
		CreatedAt:   a.now().UTC(),
	}

	if err := a.gatewayCall(ctx, "create task", func(ctx context.Context) error {
		return a.tasks.Create(ctx, task)
	}); err != nil {
		a.logger.Errorw("Failed to create task", "user_id", userID, "list_id", req.ListID, "error", err)
		return "", err
	}

	a.logger.LogUserAction(userID, "create_task", map[string]interface{}{
		"task_id": task.ID,
		"list_id": task.ListID,
	})
	return task.ID, nil
}

// GetTask retrieves one of the user's tasks by ID
func (a *TaskAggregator) GetTask(ctx context.Context, userID, taskID string) (*entities.Task, error) {
	if userID == "" {
		return nil, entities.ErrNotAuthenticated
	}

	var task *entities.Task
	err := a.gatewayCall(ctx, "get task", func(ctx context.Context) error {
		var err error
		task, err = a.tasks.GetByID(ctx, userID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SetTaskCompletion marks a task completed or active again. Only the
// completion state and the update time are written.
func (a *TaskAggregator) SetTaskCompletion(ctx context.Context, userID, taskID string, completed bool) error {
	return a.updateTask(ctx, userID, taskID, "set_task_completion", "completed", completed, a.tasks.UpdateCompletion)
}

// SetTaskFlag sets or clears a task's flag. Only the flag and the update
// time are written.
func (a *TaskAggregator) SetTaskFlag(ctx context.Context, userID, taskID string, flagged bool) error {
	return a.updateTask(ctx, userID, taskID, "set_task_flag", "flagged", flagged, a.tasks.UpdateFlag)
}

type fieldUpdate func(ctx context.Context, userID, id string, value bool, at time.Time) error

func (a *TaskAggregator) updateTask(ctx context.Context, userID, taskID, action, field string, value bool, update fieldUpdate) error {
	if userID == "" {
		return entities.ErrNotAuthenticated
	}

	at := a.now().UTC()
	if err := a.gatewayCall(ctx, "update task", func(ctx context.Context) error {
		return update(ctx, userID, taskID, value, at)
	}); err != nil {
		a.logger.Errorw("Failed to update task", "user_id", userID, "task_id", taskID, "action", action, "error", err)
		return err
	}

	a.logger.LogUserAction(userID, action, map[string]interface{}{
		"task_id": taskID,
		field:     value,
	})
	return nil
}

// fanOut queries every list the user owns concurrently and joins the
// results. completed narrows each query when non-nil.
func (a *TaskAggregator) fanOut(ctx context.Context, userID string, completed *bool) ([]entities.Task, error) {
	var lists []entities.List
	err := a.gatewayCall(ctx, "list lists", func(ctx context.Context) error {
		var err error
		lists, err = a.lists.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.metrics.ObserveFanOut(len(lists))

	results := make([][]entities.Task, len(lists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxListQueries)

	for i, list := range lists {
		i, listID := i, list.ID
		g.Go(func() error {
			tasks, err := a.queryTasks(gctx, "list tasks", ports.TaskFilter{
				UserID:    userID,
				ListID:    &listID,
				Completed: completed,
			})
			if err != nil {
				return err
			}
			results[i] = tasks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []entities.Task{}
	for _, tasks := range results {
		out = append(out, tasks...)
	}
	entities.SortTasks(out)
	return out, nil
}

func (a *TaskAggregator) getList(ctx context.Context, userID, listID string) (*entities.List, error) {
	var list *entities.List
	err := a.gatewayCall(ctx, "get list", func(ctx context.Context) error {
		var err error
		list, err = a.lists.GetByID(ctx, userID, listID)
		return err
	})
	return list, err
}

func (a *TaskAggregator) queryTasks(ctx context.Context, op string, filter ports.TaskFilter) ([]entities.Task, error) {
	var tasks []entities.Task
	err := a.gatewayCall(ctx, op, func(ctx context.Context) error {
		var err error
		tasks, err = a.tasks.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return tasks, nil
}

// gatewayCall runs fn under the per-query deadline and records its outcome.
func (a *TaskAggregator) gatewayCall(ctx context.Context, op string, fn func(context.Context) error) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	a.metrics.ObserveGatewayCall(op, elapsed, err)
	a.logger.LogGatewayCall(op, elapsed, err)

	return entities.NewGatewayError(op, err)
}

func (a *TaskAggregator) dayWindow(loc *time.Location) entities.DayWindow {
	if loc == nil {
		loc = a.location
	}
	return entities.DayWindowAt(a.now().In(loc))
}
