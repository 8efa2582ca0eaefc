package entities

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrListNotFound     = errors.New("list not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyTitle       = errors.New("task title is required")
	ErrEmptyListName    = errors.New("list name is required")
)

// GatewayError wraps a failure reported by the persistence layer.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError wraps err unless it is nil or already a domain sentinel.
func NewGatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrListNotFound) || errors.Is(err, ErrUserNotFound) {
		return err
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}

// User represents a signed-in Remindify user
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	ProfileImage *string    `json:"profile_image" db:"profile_image"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

// List is a named grouping of tasks owned by one user
type List struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Task is a single to-do item. UserID duplicates the owning list's user so
// tasks can be queried without a join.
type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	ListID      string     `json:"list_id" db:"list_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Completed   bool       `json:"completed" db:"completed"`
	Flagged     bool       `json:"flagged" db:"flagged"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// UserIDFromEmail derives the stable user identifier for an email address:
// standard base64 with '+', '/' and '=' removed. Not a secret, and two
// addresses could in theory map to the same ID.
func UserIDFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(email))
	return strings.NewReplacer("+", "", "/", "", "=", "").Replace(encoded)
}

// Business logic methods for User

// MergeLogin applies a fresh sign-in to an existing user record. The stored
// profile image is kept when the provider sends none.
func (u *User) MergeLogin(email, name string, image *string, at time.Time) {
	u.Email = email
	u.Name = name
	if image != nil && *image != "" {
		u.ProfileImage = image
	}
	u.LastLoginAt = &at
}

// Business logic methods for Task

// IsScheduled reports whether the task is incomplete and has a due date.
// Past-due tasks stay scheduled.
func (t *Task) IsScheduled() bool {
	return !t.Completed && t.DueDate != nil
}

// IsUnscheduled reports whether the task is incomplete with no due date
func (t *Task) IsUnscheduled() bool {
	return !t.Completed && t.DueDate == nil
}

// SetCompleted flips the completion state and stamps the update time
func (t *Task) SetCompleted(completed bool, at time.Time) {
	t.Completed = completed
	t.UpdatedAt = &at
}

// SetFlagged flips the flag and stamps the update time
func (t *Task) SetFlagged(flagged bool, at time.Time) {
	t.Flagged = flagged
	t.UpdatedAt = &at
}
