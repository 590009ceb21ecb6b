package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
)

// NewHTTPErrorHandler maps application errors onto echo.HTTPError responses.
// Unknown errors become a 500 with a generic message and are logged.
func NewHTTPErrorHandler(e *echo.Echo, logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *apperr.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status := apperr.HTTPStatus(appErr.Kind)
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
			}
			err = echo.NewHTTPError(status, appErr.Message)
		case errors.As(err, &httpErr):
		default:
			logger.Error("unhandled error", "method", c.Request().Method, "path", c.Path(), "err", err)
			err = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
