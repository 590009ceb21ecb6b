package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/export"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// ShoppingCartHandler handles the shopping cart and its download
type ShoppingCartHandler struct {
	cartRepository   repositories.ShoppingCartRepository
	recipeRepository repositories.RecipeRepository
	logger           *log.Logger
}

// NewShoppingCartHandler creates a new ShoppingCartHandler
func NewShoppingCartHandler(cartRepo repositories.ShoppingCartRepository, recipeRepo repositories.RecipeRepository, logger *log.Logger) *ShoppingCartHandler {
	return &ShoppingCartHandler{
		cartRepository:   cartRepo,
		recipeRepository: recipeRepo,
		logger:           logger,
	}
}

// RegisterShoppingCartRoutes registers cart routes on the /recipes group
func (h *ShoppingCartHandler) RegisterShoppingCartRoutes(g *echo.Group) {
	g.GET("/download_shopping_cart", h.DownloadShoppingCart, middleware.RequireUser)
	g.POST("/:id/shopping_cart", h.AddToCart, middleware.RequireUser)
	g.DELETE("/:id/shopping_cart", h.RemoveFromCart, middleware.RequireUser)
}

// AddToCart puts a recipe into the current user's cart
func (h *ShoppingCartHandler) AddToCart(c echo.Context) error {
	recipeID, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	recipe, err := h.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if _, err := h.cartRepository.AddToCart(ctx, getUserIDFromContext(c), recipe.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, recipe.ToShortResponse())
}

// RemoveFromCart takes a recipe out of the cart; removing an absent recipe is a bad request
func (h *ShoppingCartHandler) RemoveFromCart(c echo.Context) error {
	recipeID, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	if err := h.cartRepository.RemoveFromCart(ctx, getUserIDFromContext(c), recipeID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, apperr.MessageOf(err))
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadShoppingCart renders the aggregated shopping list as an attachment.
// ?format=pdf selects a PDF document; plain text is the default.
func (h *ShoppingCartHandler) DownloadShoppingCart(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := getUserIDFromContext(c)
	rows, err := h.cartRepository.ShoppingList(ctx, userID)
	if err != nil {
		return err
	}

	// Render fully before writing so a failure still yields a clean error response.
	var buf bytes.Buffer
	if err := export.Render(&buf, rows, format); err != nil {
		return err
	}

	h.logger.Debug("shopping list rendered", "user_id", userID, "format", format, "rows", len(rows))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", format.Filename()))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
