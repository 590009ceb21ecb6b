package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/middleware"
)

// getUserIDFromContext returns the authenticated user's id, zero when anonymous.
func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

func parseID(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, label+" not found")
	}
	return uint(id), nil
}

// parseFlag reads an optional boolean query parameter such as is_favorited=1.
func parseFlag(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid value for "+name)
	}
	return &v, nil
}

// bindAndValidate decodes the JSON body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
