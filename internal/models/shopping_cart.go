package models

import "time"

// ShoppingCartEntry puts a recipe into a user's shopping cart.
type ShoppingCartEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_cart"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_cart"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// IngredientTotal is one line of an aggregated shopping list.
type IngredientTotal struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}
