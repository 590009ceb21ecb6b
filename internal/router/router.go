package router

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/cache"
	"github.com/anonto42/foodhelper/backend/internal/handlers"
	"github.com/anonto42/foodhelper/backend/internal/mailer"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
	"github.com/anonto42/foodhelper/backend/internal/storage"
	"github.com/anonto42/foodhelper/backend/pkg/config"
	"github.com/anonto42/foodhelper/backend/validators"
)

// Deps carries everything the HTTP layer needs. Stores behind interfaces are
// swapped for in-memory fakes in tests.
type Deps struct {
	DB         *gorm.DB
	ShortLinks repositories.ShortLinkRepository
	Verifier   middleware.TokenVerifier
	// FirebaseAuth enables POST /api/users/firebase; nil leaves it unmounted.
	FirebaseAuth    middleware.IDTokenVerifier
	Images          storage.ImageStore
	Mailer          mailer.Mailer
	IngredientCache cache.IngredientCache
	Logger          *log.Logger

	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	// MediaRoot is served under /media when set (local image storage).
	MediaRoot     string
	ShortLinkBase string
}

// NewServer builds the echo instance with middleware and all routes mounted
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(e, d.Logger)

	config.SetupMiddleware(e, d.Logger, d.RateLimit)
	SetupRoutes(e, d)
	return e
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	ingredientCache := d.IngredientCache
	if ingredientCache == nil {
		ingredientCache = cache.Noop{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	if d.MediaRoot != "" {
		e.Static(strings.TrimSuffix(storage.MediaPrefix, "/"), d.MediaRoot)
		d.Logger.Debug("Serving media files.", "root", d.MediaRoot)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewSQLUserRepository(d.DB)
	recipeRepo := repositories.NewSQLRecipeRepository(d.DB)
	tagRepo := repositories.NewSQLTagRepository(d.DB)
	ingredientRepo := repositories.NewSQLIngredientRepository(d.DB)
	favoriteRepo := repositories.NewSQLFavoriteRepository(d.DB)
	cartRepo := repositories.NewSQLShoppingCartRepository(d.DB)
	followRepo := repositories.NewSQLFollowRepository(d.DB)

	presenter := handlers.NewPresenter(favoriteRepo, cartRepo, followRepo)

	// Short links resolve outside /api so shared URLs stay short
	shortLinkHandler := handlers.NewShortLinkHandler(d.ShortLinks)
	shortLinkHandler.RegisterShortLinkRoutes(e)
	d.Logger.Info("Short link routes configured.")

	// Bearer tokens are optional on /api; write routes require a user individually
	api := e.Group("/api")
	api.Use(middleware.Authenticate(d.Verifier))

	users := api.Group("/users")
	authHandler := handlers.NewAuthHandler(userRepo, d.Mailer, d.FirebaseAuth, d.Logger)
	authHandler.RegisterAuthRoutes(users)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, recipeRepo)
	followHandler.RegisterFollowRoutes(users)
	userHandler := handlers.NewUserHandler(userRepo, d.Images, presenter, d.Logger)
	userHandler.RegisterProfileRoutes(users)
	d.Logger.Info("User routes configured.")

	recipes := api.Group("/recipes")
	cartHandler := handlers.NewShoppingCartHandler(cartRepo, recipeRepo, d.Logger)
	cartHandler.RegisterShoppingCartRoutes(recipes)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, recipeRepo)
	favoriteHandler.RegisterFavoriteRoutes(recipes)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, d.ShortLinks, d.Images, presenter, d.ShortLinkBase, d.Logger)
	recipeHandler.RegisterRecipeRoutes(recipes)
	d.Logger.Info("Recipe routes configured.")

	tagHandler := handlers.NewTagHandler(tagRepo)
	tagHandler.RegisterTagRoutes(api.Group("/tags"))
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo, ingredientCache, d.Logger)
	ingredientHandler.RegisterIngredientRoutes(api.Group("/ingredients"))
	d.Logger.Info("Reference data routes configured.")

	d.Logger.Info("All routes configured.")
}
