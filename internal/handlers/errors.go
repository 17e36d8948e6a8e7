package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"PM-TMPL/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error           string `json:"error"`
	MissingVariable string `json:"missing_variable,omitempty"`
}

// handleServiceError maps service-layer errors to HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	var missingErr *services.MissingVariableError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: missingErr.Error(), MissingVariable: missingErr.Name})
		return
	}
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message})
		return
	}
	switch {
	case errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrGenerationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, services.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}

	slog.Error("unhandled service error", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// pagination reads ?limit and ?page, clamping limit to [1, 1000].
func pagination(c *gin.Context) (limit, page, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}

	return limit, page, (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
