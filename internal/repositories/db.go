package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// isDuplicateKey recognises unique violations even when the driver has no error translator.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// userRecipeLink is implemented by the per-user recipe membership tables.
type userRecipeLink interface {
	models.Favorite | models.ShoppingCartEntry
}

// addLink inserts a (user, recipe) membership row after checking that the recipe exists.
func addLink[T userRecipeLink](ctx context.Context, db *gorm.DB, row *T, recipeID uint, conflictMsg string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recipeExists(tx, recipeID); err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			if isDuplicateKey(err) {
				return apperr.Conflict(conflictMsg)
			}
			return err
		}
		return nil
	})
}

// removeLink deletes a (user, recipe) membership row. A missing row is a NotFound error.
func removeLink[T userRecipeLink](ctx context.Context, db *gorm.DB, userID, recipeID uint, notFoundMsg string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(notFoundMsg)
	}
	return nil
}

// linkedRecipeIDs returns which of recipeIDs the user has a membership row for.
func linkedRecipeIDs[T userRecipeLink](ctx context.Context, db *gorm.DB, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func recipeExists(tx *gorm.DB, recipeID uint) error {
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("recipe not found")
	}
	return nil
}

func userExists(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
