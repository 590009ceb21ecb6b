package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// FollowHandler handles subscribe/unsubscribe HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	recipeRepository repositories.RecipeRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, recipeRepo repositories.RecipeRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		recipeRepository: recipeRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes on the /users group
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/subscriptions", h.GetSubscriptions, middleware.RequireUser)
	g.POST("/:id/subscribe", h.Subscribe, middleware.RequireUser)
	g.DELETE("/:id/subscribe", h.Unsubscribe, middleware.RequireUser)
}

// Subscribe follows an author
func (h *FollowHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	authorID, err := parseID(c, "id", "User")
	if err != nil {
		return err
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return err
	}
	if _, err := h.followRepository.CreateFollow(ctx, currentUserID, authorID); err != nil {
		return err
	}

	out, err := h.subscription(ctx, author, recipesLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// Unsubscribe stops following an author
func (h *FollowHandler) Unsubscribe(c echo.Context) error {
	authorID, err := parseID(c, "id", "User")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	if err := h.followRepository.DeleteFollow(ctx, getUserIDFromContext(c), authorID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, apperr.MessageOf(err))
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSubscriptions lists the authors the current user follows with a preview of their recipes
func (h *FollowHandler) GetSubscriptions(c echo.Context) error {
	p, err := parsePage(c, defaultUserPageSize)
	if err != nil {
		return err
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	authors, total, err := h.followRepository.GetFollowing(ctx, getUserIDFromContext(c), p.offset(), p.limit)
	if err != nil {
		return err
	}

	out := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		sub, err := h.subscription(ctx, &authors[i], recipesLimit)
		if err != nil {
			return err
		}
		out = append(out, sub)
	}
	return c.JSON(http.StatusOK, newPage(c, p, total, out))
}

// subscription renders an author the viewer follows.
func (h *FollowHandler) subscription(ctx context.Context, author *models.User, recipesLimit int) (models.SubscriptionResponse, error) {
	recipes, count, err := h.recipeRepository.ListRecipes(ctx, models.RecipeFilter{AuthorID: author.ID}, 0, recipesLimit)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}
	return models.SubscriptionResponse{
		UserResponse: author.ToResponse(true),
		Recipes:      shortRecipes(recipes),
		RecipesCount: count,
	}, nil
}

// parseRecipesLimit reads ?recipes_limit=; absent means every recipe (-1).
func parseRecipesLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("recipes_limit")
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid recipes_limit")
	}
	return n, nil
}
