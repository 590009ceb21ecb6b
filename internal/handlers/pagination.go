package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

const maxPageSize = 100

type pageParams struct {
	page  int
	limit int
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.limit
}

// parsePage reads ?page= and ?limit=. Limits above maxPageSize are clamped.
func parsePage(c echo.Context, defaultLimit int) (pageParams, error) {
	p := pageParams{page: 1, limit: defaultLimit}

	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "Invalid page")
		}
		p.page = n
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		p.limit = min(n, maxPageSize)
	}
	return p, nil
}

func newPage[T any](c echo.Context, p pageParams, total int64, results []T) models.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := models.Page[T]{Count: total, Results: results}
	if int64(p.page*p.limit) < total {
		next := pageURL(c, p.page+1)
		page.Next = &next
	}
	if p.page > 1 {
		prev := pageURL(c, p.page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c echo.Context, page int) string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return c.Scheme() + "://" + c.Request().Host + u.RequestURI()
}
