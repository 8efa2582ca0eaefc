package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

const taskColumns = `id, user_id, list_id, title, description, due_date, completed, flagged, created_at, updated_at`

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		task.ID, task.UserID, task.ListID, task.Title, task.Description,
		utcPtr(task.DueDate), task.Completed, task.Flagged,
		task.CreatedAt.UTC(), utcPtr(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, userID, id string) (*entities.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = ? AND user_id = ?`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, r.db.Rebind(query), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	normalizeTask(&task)
	return &task, nil
}

// UpdateCompletion sets completed and updated_at, scoped to the owning user
func (r *TaskRepositoryImpl) UpdateCompletion(ctx context.Context, userID, id string, completed bool, at time.Time) error {
	return r.updateColumn(ctx, "completed", completed, userID, id, at)
}

// UpdateFlag sets flagged and updated_at, scoped to the owning user
func (r *TaskRepositoryImpl) UpdateFlag(ctx context.Context, userID, id string, flagged bool, at time.Time) error {
	return r.updateColumn(ctx, "flagged", flagged, userID, id, at)
}

// updateColumn writes a single boolean column. column is always one of the
// literals above, never caller input.
func (r *TaskRepositoryImpl) updateColumn(ctx context.Context, column string, value bool, userID, id string, at time.Time) error {
	query := `
		UPDATE tasks
		SET ` + column + ` = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), value, at.UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task %s: %w", column, err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{filter.UserID}

	if filter.ListID != nil {
		where = append(where, "list_id = ?")
		args = append(args, *filter.ListID)
	}
	if filter.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Flagged != nil {
		where = append(where, "flagged = ?")
		args = append(args, *filter.Flagged)
	}
	if filter.DueFrom != nil {
		where = append(where, "due_date >= ?")
		args = append(args, filter.DueFrom.UTC())
	}
	if filter.DueBefore != nil {
		where = append(where, "due_date < ?")
		args = append(args, filter.DueBefore.UTC())
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at ASC, id ASC`

	tasks := []entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return tasks, nil
}

func normalizeTask(t *entities.Task) {
	t.CreatedAt = t.CreatedAt.UTC()
	t.DueDate = utcPtr(t.DueDate)
	t.UpdatedAt = utcPtr(t.UpdatedAt)
}
