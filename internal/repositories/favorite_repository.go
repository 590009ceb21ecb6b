package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

// FavoriteRepository defines the interface for favorite operations
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	IsFavorited(ctx context.Context, userID, recipeID uint) (bool, error)
	GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// SQLFavoriteRepository implements FavoriteRepository on the relational store
type SQLFavoriteRepository struct {
	db *gorm.DB
}

func NewSQLFavoriteRepository(db *gorm.DB) *SQLFavoriteRepository {
	return &SQLFavoriteRepository{db: db}
}

// AddFavorite fails with a Conflict error when the recipe is already a favorite.
func (r *SQLFavoriteRepository) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := addLink(ctx, r.db, fav, recipeID, "recipe is already in favorites"); err != nil {
		return nil, err
	}
	return fav, nil
}

func (r *SQLFavoriteRepository) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return removeLink[models.Favorite](ctx, r.db, userID, recipeID, "recipe is not in favorites")
}

func (r *SQLFavoriteRepository) IsFavorited(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *SQLFavoriteRepository) GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return linkedRecipeIDs[models.Favorite](ctx, r.db, userID, recipeIDs)
}
