package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShortLink maps a short token onto a recipe. Stored in MongoDB.
type ShortLink struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Token     string             `json:"token" bson:"token"`
	RecipeID  uint               `json:"recipe_id" bson:"recipe_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
