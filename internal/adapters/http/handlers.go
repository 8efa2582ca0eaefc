package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
	"github.com/Yash-Thio/IETE-ToDo/internal/session"
)

const (
	stateCookie    = "remindify_oauth_state"
	verifierCookie = "remindify_oauth_verifier"
	loginCookieTTL = 10 * time.Minute
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	config      config.AuthConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg config.AuthConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		logger:      logger,
	}
}

// Login redirects to the Google consent page
// @Summary Start Google sign-in
// @Tags auth
// @Success 302
// @Router /auth/google/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	redirect, err := h.authService.BeginLogin()
	if err != nil {
		h.logger.Errorw("Failed to begin login", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start sign-in")
	}

	c.SetCookie(h.cookie(stateCookie, redirect.State, loginCookieTTL))
	c.SetCookie(h.cookie(verifierCookie, redirect.Verifier, loginCookieTTL))

	return c.Redirect(http.StatusFound, redirect.URL)
}

// Callback completes the sign-in started by Login
// @Summary Finish Google sign-in
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 302
// @Success 200 {object} ports.AuthResponse
// @Failure 400 {object} ports.MessageResponse
// @Failure 401 {object} ports.MessageResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	if reason := c.QueryParam("error"); reason != "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Sign-in was cancelled: "+reason)
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		h.logger.LogSecurityEvent("oauth_state_mismatch", "", c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sign-in state")
	}
	verifier, err := c.Cookie(verifierCookie)
	if err != nil || verifier.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing sign-in verifier")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing authorization code")
	}

	response, err := h.authService.CompleteLogin(c.Request().Context(), code, verifier.Value)
	if err != nil {
		h.logger.Errorw("Sign-in failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Sign-in failed")
	}

	c.SetCookie(h.cookie(stateCookie, "", -1))
	c.SetCookie(h.cookie(verifierCookie, "", -1))
	c.SetCookie(h.cookie(h.config.SessionCookie, response.AccessToken, h.config.SessionTTL))

	if h.config.LoginRedirect == "" {
		return c.JSON(http.StatusOK, response)
	}
	return c.Redirect(http.StatusFound, h.config.LoginRedirect)
}

// Logout clears the session cookie
// @Summary Sign out
// @Tags auth
// @Success 200 {object} ports.MessageResponse
// @Success 303
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if userID, err := session.UserID(c.Request().Context()); err == nil {
		if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
			h.logger.Errorw("Logout failed", "error", err, "user_id", userID)
		}
	}

	c.SetCookie(h.cookie(h.config.SessionCookie, "", -1))

	if h.config.LogoutRedirect == "" {
		return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
	}
	return c.Redirect(http.StatusSeeOther, h.config.LogoutRedirect)
}

// Me returns the signed-in user
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} entities.User
// @Failure 401 {object} ports.MessageResponse
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := session.UserID(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get current user failed", "error", err, "user_id", userID)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}

// Utility functions

// ErrorStatus maps a domain error to its HTTP status code.
func ErrorStatus(err error) int {
	var gwErr *entities.GatewayError
	switch {
	case errors.Is(err, entities.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrListNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidCategory),
		errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrEmptyListName):
		return http.StatusBadRequest
	case errors.As(err, &gwErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	code := ErrorStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

// respondTasks writes a task list, degrading to an empty list with a
// message when the store failed.
func respondTasks(c echo.Context, tasks []entities.Task, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, ports.TasksResponse{Tasks: tasks})
	}

	code := ErrorStatus(err)
	if code != http.StatusBadGateway {
		return respondError(c, err)
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return c.JSON(code, ports.TasksResponse{Tasks: tasks, Message: err.Error()})
}

// locationParam resolves the tz query parameter; nil means the default zone.
func locationParam(c echo.Context) (*time.Location, error) {
	name := c.QueryParam("tz")
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Unknown time zone: "+name)
	}
	return loc, nil
}
