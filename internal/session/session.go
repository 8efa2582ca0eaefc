// Package session carries the signed-in user through a request context.
package session

import (
	"context"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
)

// Session is the authenticated identity attached to one request
type Session struct {
	UserID    string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	if !ok || s == nil || s.UserID == "" {
		return nil, false
	}
	return s, true
}

// UserID returns the signed-in user's ID or ErrNotAuthenticated.
func UserID(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", entities.ErrNotAuthenticated
	}
	return s.UserID, nil
}
