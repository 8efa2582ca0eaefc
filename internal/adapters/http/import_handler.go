package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/session"
)

// maxImportBytes caps an import document. Larger bodies are rejected whole.
const maxImportBytes = 1 << 20

// ImportHandler handles bulk imports
type ImportHandler struct {
	importer *services.Importer
	logger   *logger.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer *services.Importer, logger *logger.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		logger:   logger,
	}
}

// Import creates lists and tasks from a YAML document
// @Summary Import lists and tasks
// @Tags import
// @Security BearerAuth
// @Accept application/x-yaml
// @Success 201 {object} ports.ImportResult
// @Failure 400 {object} ports.MessageResponse
// @Failure 413 {object} ports.MessageResponse
// @Failure 502 {object} ports.MessageResponse
// @Router /api/v1/import [post]
func (h *ImportHandler) Import(c echo.Context) error {
	userID, _ := session.UserID(c.Request().Context())

	// Read one byte past the cap so an oversized body is detected rather
	// than silently cut short.
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes+1))
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read import document")
	}
	if len(data) > maxImportBytes {
		h.logger.Warnw("Import document too large", "user_id", userID, "limit_bytes", maxImportBytes)
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Import document exceeds 1 MiB")
	}

	result, err := h.importer.ImportYAML(c.Request().Context(), userID, bytes.NewReader(data))
	if err != nil {
		h.logger.Errorw("Import failed", "error", err, "user_id", userID)

		var gwErr *entities.GatewayError
		if errors.Is(err, entities.ErrNotAuthenticated) || errors.As(err, &gwErr) {
			return respondError(c, err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, result)
}
