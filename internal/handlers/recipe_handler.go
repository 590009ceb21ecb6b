package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
	"github.com/anonto42/foodhelper/backend/internal/storage"
)

const defaultRecipePageSize = 10

// RecipeHandler handles recipe CRUD and short links
type RecipeHandler struct {
	recipeRepository    repositories.RecipeRepository
	shortLinkRepository repositories.ShortLinkRepository
	images              storage.ImageStore
	presenter           *Presenter
	shortLinkBase       string
	logger              *log.Logger
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(
	recipeRepo repositories.RecipeRepository,
	shortLinkRepo repositories.ShortLinkRepository,
	images storage.ImageStore,
	p *Presenter,
	shortLinkBase string,
	logger *log.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipeRepository:    recipeRepo,
		shortLinkRepository: shortLinkRepo,
		images:              images,
		presenter:           p,
		shortLinkBase:       strings.TrimRight(shortLinkBase, "/"),
		logger:              logger,
	}
}

// RegisterRecipeRoutes registers recipe routes on the /recipes group
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.GET("", h.GetRecipes)
	g.POST("", h.CreateRecipe, middleware.RequireUser)
	g.GET("/:id", h.GetRecipe)
	g.PATCH("/:id", h.UpdateRecipe, middleware.RequireUser)
	g.DELETE("/:id", h.DeleteRecipe, middleware.RequireUser)
	g.GET("/:id/get-link", h.GetShortLink)
}

// GetRecipes lists recipes filtered by author, tags and the viewer's favorites or cart
func (h *RecipeHandler) GetRecipes(c echo.Context) error {
	p, err := parsePage(c, defaultRecipePageSize)
	if err != nil {
		return err
	}

	viewerID := getUserIDFromContext(c)
	filter := models.RecipeFilter{ViewerID: viewerID, TagSlugs: c.QueryParams()["tags"]}
	if raw := c.QueryParam("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author")
		}
		filter.AuthorID = uint(author)
	}
	if filter.IsFavorited, err = parseFlag(c, "is_favorited"); err != nil {
		return err
	}
	if filter.IsInShoppingCart, err = parseFlag(c, "is_in_shopping_cart"); err != nil {
		return err
	}

	ctx := c.Request().Context()
	recipes, total, err := h.recipeRepository.ListRecipes(ctx, filter, p.offset(), p.limit)
	if err != nil {
		return err
	}
	out, err := h.presenter.recipes(ctx, viewerID, recipes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPage(c, p, total, out))
}

// GetRecipe returns a single recipe
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	id, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	recipe, err := h.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	out, err := h.presenter.recipe(ctx, getUserIDFromContext(c), recipe)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CreateRecipe publishes a recipe authored by the current user
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	var req models.CreateRecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := getUserIDFromContext(c)
	imageURL, err := storeImage(ctx, h.images, storage.RecipeImages, req.Image)
	if err != nil {
		return err
	}

	recipe := &models.Recipe{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}
	if err := h.recipeRepository.CreateRecipe(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		discardImage(ctx, h.images, h.logger, imageURL)
		return err
	}

	out, err := h.presenter.recipe(ctx, userID, recipe)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// UpdateRecipe replaces a recipe's content. Only the author may edit it.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	id, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := getUserIDFromContext(c)
	existing, err := h.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return apperr.Forbidden("only the author can change this recipe")
	}

	var req models.UpdateRecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	imageURL := existing.Image
	if req.Image != "" {
		if imageURL, err = storeImage(ctx, h.images, storage.RecipeImages, req.Image); err != nil {
			return err
		}
	}

	recipe := &models.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}
	if err := h.recipeRepository.UpdateRecipe(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		if imageURL != existing.Image {
			discardImage(ctx, h.images, h.logger, imageURL)
		}
		return err
	}
	if imageURL != existing.Image {
		discardImage(ctx, h.images, h.logger, existing.Image)
	}

	out, err := h.presenter.recipe(ctx, userID, recipe)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteRecipe removes a recipe with everything that references it. Only the author may delete it.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	id, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	recipe, err := h.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != getUserIDFromContext(c) {
		return apperr.Forbidden("only the author can delete this recipe")
	}

	if err := h.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}

	discardImage(ctx, h.images, h.logger, recipe.Image)
	if err := h.shortLinkRepository.DeleteByRecipe(ctx, id); err != nil {
		h.logger.Warn("short link not removed", "recipe_id", id, "err", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetShortLink returns the recipe's stable short link, creating it on first request
func (h *RecipeHandler) GetShortLink(c echo.Context) error {
	id, err := parseID(c, "id", "Recipe")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return err
	}
	link, err := h.shortLinkRepository.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ShortLinkResponse{ShortLink: h.shortLinkBase + "/s/" + link.Token})
}
