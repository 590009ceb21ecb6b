package models

import "time"

type Recipe struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	AuthorID    uint               `json:"author_id" gorm:"index;not null"`
	Author      User               `json:"-" gorm:"foreignKey:AuthorID"`
	Name        string             `json:"name" gorm:"size:256;not null"`
	Text        string             `json:"text" gorm:"not null"`
	Image       string             `json:"image"` // public URL of the stored picture
	CookingTime int                `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time > 0"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
	CreatedAt   time.Time          `json:"-" gorm:"index"`
	UpdatedAt   time.Time          `json:"-"`
}

// RecipeIngredient is an ingredient line of a recipe. A recipe lists each ingredient at most once.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"index;uniqueIndex:idx_recipe_ingredient;not null"`
	IngredientID uint       `gorm:"index;uniqueIndex:idx_recipe_ingredient;not null"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount > 0"`
}

type RecipeIngredientInput struct {
	ID     uint `json:"id" validate:"required,gt=0"`
	Amount int  `json:"amount" validate:"required,min=1,max=32000"`
}

type CreateRecipeRequest struct {
	Name        string                  `json:"name" validate:"required,max=256"`
	Text        string                  `json:"text" validate:"required"`
	Image       string                  `json:"image" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"required,min=1,max=32000"`
	Tags        []uint                  `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// UpdateRecipeRequest replaces every field of a recipe; the image is kept when omitted.
type UpdateRecipeRequest struct {
	Name        string                  `json:"name" validate:"required,max=256"`
	Text        string                  `json:"text" validate:"required"`
	Image       string                  `json:"image" validate:"omitempty"`
	CookingTime int                     `json:"cooking_time" validate:"required,min=1,max=32000"`
	Tags        []uint                  `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// RecipeFilter narrows a recipe listing. Viewer-dependent flags are ignored when ViewerID is zero.
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	ViewerID         uint
	IsFavorited      *bool
	IsInShoppingCart *bool
}

type IngredientAmountResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the compact form returned by favorite and cart endpoints.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func (r *Recipe) ToShortResponse() RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
