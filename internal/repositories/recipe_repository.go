package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredientInput) error
	UpdateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredientInput) error
	DeleteRecipe(ctx context.Context, id uint) error
	GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter models.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
}

// SQLRecipeRepository implements RecipeRepository on the relational store
type SQLRecipeRepository struct {
	db *gorm.DB
}

func NewSQLRecipeRepository(db *gorm.DB) *SQLRecipeRepository {
	return &SQLRecipeRepository{db: db}
}

// CreateRecipe inserts the recipe with its tags and ingredient lines in one transaction.
// Unknown tag or ingredient ids are validation errors.
func (r *SQLRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredientInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredients(tx, items); err != nil {
			return err
		}

		recipe.Tags = nil
		recipe.Ingredients = nil
		if err := tx.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return insertRecipeIngredients(tx, recipe.ID, items)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, recipe)
}

// UpdateRecipe overwrites the recipe fields and replaces its tags and ingredient lines.
func (r *SQLRecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredientInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredients(tx, items); err != nil {
			return err
		}

		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("recipe not found")
		}

		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertRecipeIngredients(tx, recipe.ID, items)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, recipe)
}

// DeleteRecipe removes the recipe together with its ingredient lines, tag links,
// favorites and shopping cart entries.
func (r *SQLRecipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recipeExists(tx, id); err != nil {
			return err
		}
		for _, model := range []any{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCartEntry{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

func (r *SQLRecipeRepository) GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes pages through recipes matching filter, newest first.
func (r *SQLRecipeRepository) ListRecipes(ctx context.Context, filter models.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := withDetails(r.filtered(db, filter)).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *SQLRecipeRepository) filtered(db *gorm.DB, f models.RecipeFilter) *gorm.DB {
	q := db.Model(&models.Recipe{})

	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.ViewerID != 0 && f.IsFavorited != nil {
		q = membershipFilter(q, r.db.Model(&models.Favorite{}), f.ViewerID, *f.IsFavorited)
	}
	if f.ViewerID != 0 && f.IsInShoppingCart != nil {
		q = membershipFilter(q, r.db.Model(&models.ShoppingCartEntry{}), f.ViewerID, *f.IsInShoppingCart)
	}
	return q
}

func membershipFilter(q, links *gorm.DB, userID uint, member bool) *gorm.DB {
	sub := links.Select("recipe_id").Where("user_id = ?", userID)
	if member {
		return q.Where("recipes.id IN (?)", sub)
	}
	return q.Where("recipes.id NOT IN (?)", sub)
}

// reload refreshes recipe with its author, tags and ordered ingredient lines.
func (r *SQLRecipeRepository) reload(ctx context.Context, recipe *models.Recipe) error {
	fresh, err := r.GetRecipeByID(ctx, recipe.ID)
	if err != nil {
		return err
	}
	*recipe = *fresh
	return nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}

func loadTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.Validation("unknown tag id")
	}
	return tags, nil
}

func checkIngredients(tx *gorm.DB, items []models.RecipeIngredientInput) error {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return apperr.Validation("unknown ingredient id")
	}
	return nil
}

// insertRecipeIngredients keeps the submitted order; lines are read back ordered by id.
func insertRecipeIngredients(tx *gorm.DB, recipeID uint, items []models.RecipeIngredientInput) error {
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, it := range items {
		if it.Amount <= 0 {
			return apperr.Validation("ingredient amount must be positive")
		}
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: it.ID, Amount: it.Amount})
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Validation("ingredients must be unique")
		}
		return err
	}
	return nil
}
