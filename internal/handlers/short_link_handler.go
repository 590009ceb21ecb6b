package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// ShortLinkHandler resolves recipe short links
type ShortLinkHandler struct {
	shortLinkRepository repositories.ShortLinkRepository
}

func NewShortLinkHandler(shortLinkRepo repositories.ShortLinkRepository) *ShortLinkHandler {
	return &ShortLinkHandler{shortLinkRepository: shortLinkRepo}
}

func (h *ShortLinkHandler) RegisterShortLinkRoutes(e *echo.Echo) {
	e.GET("/s/:token", h.Redirect)
}

// Redirect sends the client to the recipe page behind the token
func (h *ShortLinkHandler) Redirect(c echo.Context) error {
	link, err := h.shortLinkRepository.Resolve(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d", link.RecipeID))
}
