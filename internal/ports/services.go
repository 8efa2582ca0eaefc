package ports

import (
	"context"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
)

// IdentityProvider drives the external sign-in flow
type IdentityProvider interface {
	// AuthCodeURL returns the consent page URL for the given state and
	// PKCE verifier.
	AuthCodeURL(state, verifier string) string
	// Exchange trades an authorization code for the signed-in identity.
	Exchange(ctx context.Context, code, verifier string) (*Identity, error)
}

// Identity is what the identity provider tells us about a signed-in person
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Request/Response Types

// Auth related types
type LoginRedirect struct {
	URL      string
	State    string
	Verifier string
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// List related types
type CreateListRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Task related types
type CreateTaskRequest struct {
	ListID      string     `json:"list_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=500"`
	Description string     `json:"description" validate:"max=2000"`
	DueDate     *time.Time `json:"due_date"`
	Flagged     bool       `json:"flagged"`
}

type SetCompletionRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type SetFlagRequest struct {
	Flagged *bool `json:"flagged" validate:"required"`
}

// Response types
type TasksResponse struct {
	Tasks   []entities.Task `json:"tasks"`
	Message string          `json:"message,omitempty"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type ImportResult struct {
	Lists int `json:"lists"`
	Tasks int `json:"tasks"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
