package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
	"github.com/Yash-Thio/IETE-ToDo/internal/session"
)

// authMiddleware validates the session token from the Authorization header
// or the session cookie and attaches the session to the request context.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := s.tokenFromRequest(c)
			if err != nil {
				return err
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			attachSession(c, sessionFromClaims(claims))
			return next(c)
		}
	}
}

// optionalAuth attaches a session when a valid token is present and lets
// the request through either way.
func (s *Server) optionalAuth(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := s.tokenFromRequest(c)
			if token == "" {
				return next(c)
			}
			if claims, err := authService.ValidateToken(token); err == nil {
				attachSession(c, sessionFromClaims(claims))
			}
			return next(c)
		}
	}
}

// tokenFromRequest prefers a bearer token and falls back to the cookie.
func (s *Server) tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := c.Cookie(s.config.Auth.SessionCookie)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}

func sessionFromClaims(claims *ports.Claims) *session.Session {
	return &session.Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}

func attachSession(c echo.Context, sess *session.Session) {
	c.Set("user", sess.UserID)
	c.Set("user_email", sess.Email)
	c.SetRequest(c.Request().WithContext(session.NewContext(c.Request().Context(), sess)))
}
