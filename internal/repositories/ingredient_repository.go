package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// IngredientRepository defines the interface for ingredient reference data
type IngredientRepository interface {
	SearchIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error)
	LoadIngredients(ctx context.Context, items []models.Ingredient) (int64, error)
}

// SQLIngredientRepository implements IngredientRepository on the relational store
type SQLIngredientRepository struct {
	db *gorm.DB
}

func NewSQLIngredientRepository(db *gorm.DB) *SQLIngredientRepository {
	return &SQLIngredientRepository{db: db}
}

// SearchIngredients returns ingredients whose name starts with namePrefix, ignoring case.
// An empty prefix lists everything.
func (r *SQLIngredientRepository) SearchIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name ASC, measurement_unit ASC")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(namePrefix))+"%")
	}

	ingredients := []models.Ingredient{}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *SQLIngredientRepository) GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}

// LoadIngredients inserts reference data, skipping (name, unit) pairs that already exist.
// It returns the number of rows inserted.
func (r *SQLIngredientRepository) LoadIngredients(ctx context.Context, items []models.Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(&items, 500)
	return res.RowsAffected, res.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`%`, `\%`, `_`, `\_`).Replace(s)
}
