package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/cache"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// IngredientHandler serves ingredient reference data
type IngredientHandler struct {
	ingredientRepository repositories.IngredientRepository
	cache                cache.IngredientCache
	logger               *log.Logger
}

func NewIngredientHandler(ingredientRepo repositories.IngredientRepository, c cache.IngredientCache, logger *log.Logger) *IngredientHandler {
	return &IngredientHandler{ingredientRepository: ingredientRepo, cache: c, logger: logger}
}

func (h *IngredientHandler) RegisterIngredientRoutes(g *echo.Group) {
	g.GET("", h.GetIngredients)
	g.GET("/:id", h.GetIngredient)
}

// GetIngredients searches by case-insensitive name prefix (?name=), served from cache when possible
func (h *IngredientHandler) GetIngredients(c echo.Context) error {
	ctx := c.Request().Context()
	prefix := strings.TrimSpace(c.QueryParam("name"))

	items, ok, err := h.cache.Get(ctx, prefix)
	if err != nil {
		h.logger.Warn("ingredient cache read failed", "err", err)
	}
	if ok {
		return c.JSON(http.StatusOK, items)
	}

	items, err = h.ingredientRepository.SearchIngredients(ctx, prefix)
	if err != nil {
		return err
	}
	if err := h.cache.Set(ctx, prefix, items); err != nil {
		h.logger.Warn("ingredient cache write failed", "err", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *IngredientHandler) GetIngredient(c echo.Context) error {
	id, err := parseID(c, "id", "Ingredient")
	if err != nil {
		return err
	}
	ingredient, err := h.ingredientRepository.GetIngredientByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingredient)
}

// TagHandler serves tag reference data
type TagHandler struct {
	tagRepository repositories.TagRepository
}

func NewTagHandler(tagRepo repositories.TagRepository) *TagHandler {
	return &TagHandler{tagRepository: tagRepo}
}

func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("", h.GetTags)
	g.GET("/:id", h.GetTag)
}

func (h *TagHandler) GetTags(c echo.Context) error {
	tags, err := h.tagRepository.GetTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseID(c, "id", "Tag")
	if err != nil {
		return err
	}
	tag, err := h.tagRepository.GetTagByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}
