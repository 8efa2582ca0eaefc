package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
	"github.com/Yash-Thio/IETE-ToDo/internal/session"
)

// ListHandler handles list-related requests
type ListHandler struct {
	listService *services.ListService
	logger      *logger.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(listService *services.ListService, logger *logger.Logger) *ListHandler {
	return &ListHandler{
		listService: listService,
		logger:      logger,
	}
}

// CreateList handles list creation
// @Summary Create a list
// @Tags lists
// @Security BearerAuth
// @Param list body ports.CreateListRequest true "List"
// @Success 201 {object} entities.List
// @Failure 400 {object} ports.MessageResponse
// @Router /api/v1/lists [post]
func (h *ListHandler) CreateList(c echo.Context) error {
	var req ports.CreateListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := session.UserID(c.Request().Context())
	list, err := h.listService.CreateList(c.Request().Context(), userID, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, list)
}

// GetList handles getting a list by ID
// @Summary Get a list
// @Tags lists
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {object} entities.List
// @Failure 404 {object} ports.MessageResponse
// @Router /api/v1/lists/{id} [get]
func (h *ListHandler) GetList(c echo.Context) error {
	userID, _ := session.UserID(c.Request().Context())
	list, err := h.listService.GetList(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ListLists handles listing the user's lists
// @Summary Lists
// @Tags lists
// @Security BearerAuth
// @Success 200 {array} entities.List
// @Router /api/v1/lists [get]
func (h *ListHandler) ListLists(c echo.Context) error {
	userID, _ := session.UserID(c.Request().Context())
	lists, err := h.listService.ListLists(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, lists)
}
