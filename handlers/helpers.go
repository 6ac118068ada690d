package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nellaibill/teachersbank/lifecycle"
)

// atoiOr converts a query value, falling back on the default when empty
// or malformed.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// pageLimit reads page/limit query params with the usual clamps.
func pageLimit(c echo.Context) (page, limit int) {
	page = atoiOr(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	limit = atoiOr(c.QueryParam("limit"), 20)
	if limit < 1 {
		limit = 1
	} else if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}

func pagination(total int64, page, limit int) map[string]any {
	return map[string]any{
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	}
}

// lifecycleError maps the lifecycle error taxonomy onto HTTP responses.
func lifecycleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": err.Error()})
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": err.Error()})
	case errors.Is(err, lifecycle.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_DISPATCH", "message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORAGE_ERROR"})
	}
}
