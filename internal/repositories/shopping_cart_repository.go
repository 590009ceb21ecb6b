package repositories

import (
	"cmp"
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

// ShoppingCartRepository defines the interface for shopping cart operations
type ShoppingCartRepository interface {
	AddToCart(ctx context.Context, userID, recipeID uint) (*models.ShoppingCartEntry, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
	GetCartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	ShoppingList(ctx context.Context, userID uint) ([]models.IngredientTotal, error)
}

// SQLShoppingCartRepository implements ShoppingCartRepository on the relational store
type SQLShoppingCartRepository struct {
	db *gorm.DB
}

func NewSQLShoppingCartRepository(db *gorm.DB) *SQLShoppingCartRepository {
	return &SQLShoppingCartRepository{db: db}
}

// AddToCart fails with a Conflict error when the recipe is already in the cart.
func (r *SQLShoppingCartRepository) AddToCart(ctx context.Context, userID, recipeID uint) (*models.ShoppingCartEntry, error) {
	entry := &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	if err := addLink(ctx, r.db, entry, recipeID, "recipe is already in the shopping cart"); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *SQLShoppingCartRepository) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return removeLink[models.ShoppingCartEntry](ctx, r.db, userID, recipeID, "recipe is not in the shopping cart")
}

func (r *SQLShoppingCartRepository) GetCartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return linkedRecipeIDs[models.ShoppingCartEntry](ctx, r.db, userID, recipeIDs)
}

// ShoppingList sums ingredient amounts over every recipe in the user's cart, one row per
// (name, unit) pair, sorted by name and then unit. An empty cart yields an empty list.
func (r *SQLShoppingCartRepository) ShoppingList(ctx context.Context, userID uint) ([]models.IngredientTotal, error) {
	db := r.db.WithContext(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	rows := []models.IngredientTotal{}
	err := db.Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_cart_entries AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Collation differs between drivers; order in Go so both agree.
	slices.SortFunc(rows, func(a, b models.IngredientTotal) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})
	return rows, nil
}
