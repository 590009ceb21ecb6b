package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// FavoriteHandler handles HTTP requests related to favorites
type FavoriteHandler struct {
	favoriteRepository repositories.FavoriteRepository
	recipeRepository   repositories.RecipeRepository
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteRepo repositories.FavoriteRepository, recipeRepo repositories.RecipeRepository) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteRepository: favoriteRepo,
		recipeRepository:   recipeRepo,
	}
}

// RegisterFavoriteRoutes registers favorite routes on the /recipes group
func (h *FavoriteHandler) RegisterFavoriteRoutes(g *echo.Group) {
	g.POST("/:id/favorite", h.AddFavorite, middleware.RequireUser)
	g.DELETE("/:id/favorite", h.RemoveFavorite, middleware.RequireUser)
}

// AddFavorite marks a recipe as favorite
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	recipeID, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	recipe, err := h.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if _, err := h.favoriteRepository.AddFavorite(ctx, getUserIDFromContext(c), recipe.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, recipe.ToShortResponse())
}

// RemoveFavorite unmarks a recipe; removing a recipe that is not a favorite is a bad request
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	recipeID, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	if err := h.favoriteRepository.RemoveFavorite(ctx, getUserIDFromContext(c), recipeID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, apperr.MessageOf(err))
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
