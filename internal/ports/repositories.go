package ports

import (
	"context"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}

// ListRepository defines the interface for list data operations
type ListRepository interface {
	Create(ctx context.Context, list *entities.List) error
	GetByID(ctx context.Context, userID, id string) (*entities.List, error)
	ListByUser(ctx context.Context, userID string) ([]entities.List, error)
}

// TaskRepository defines the interface for task data operations.
// List returns tasks in creation order; callers must not rely on any other
// ordering.
//
// UpdateCompletion and UpdateFlag write only their own column plus
// updated_at, so concurrent mutations of different fields do not clobber
// each other. Both return ErrTaskNotFound when no task with that ID
// belongs to userID.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, userID, id string) (*entities.Task, error)
	UpdateCompletion(ctx context.Context, userID, id string, completed bool, at time.Time) error
	UpdateFlag(ctx context.Context, userID, id string, flagged bool, at time.Time) error
	List(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
}

// TaskFilter holds the equality and range predicates the store can apply.
// UserID is mandatory; every other field is optional.
type TaskFilter struct {
	UserID    string
	ListID    *string
	Completed *bool
	Flagged   *bool
	DueFrom   *time.Time
	DueBefore *time.Time
}

// BoolPtr is a helper for building filters
func BoolPtr(v bool) *bool {
	return &v
}

// StringPtr is a helper for building filters
func StringPtr(v string) *string {
	return &v
}
