package handlers

import (
	"context"

	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// Presenter turns stored rows into viewer-dependent responses, resolving the
// is_subscribed, is_favorited and is_in_shopping_cart flags in batches.
type Presenter struct {
	favorites repositories.FavoriteRepository
	cart      repositories.ShoppingCartRepository
	follows   repositories.FollowRepository
}

func NewPresenter(favorites repositories.FavoriteRepository, cart repositories.ShoppingCartRepository, follows repositories.FollowRepository) *Presenter {
	return &Presenter{favorites: favorites, cart: cart, follows: follows}
}

func (p *Presenter) users(ctx context.Context, viewerID uint, users []models.User) ([]models.UserResponse, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	following, err := p.follows.GetFollowingIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse(following[users[i].ID])
	}
	return out, nil
}

func (p *Presenter) user(ctx context.Context, viewerID uint, user *models.User) (models.UserResponse, error) {
	out, err := p.users(ctx, viewerID, []models.User{*user})
	if err != nil {
		return models.UserResponse{}, err
	}
	return out[0], nil
}

func (p *Presenter) recipes(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authors := make([]models.User, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authors[i] = recipes[i].Author
	}

	favorited, err := p.favorites.GetFavoritedIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := p.cart.GetCartRecipeIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	authorResponses, err := p.users(ctx, viewerID, authors)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		ingredients := make([]models.IngredientAmountResponse, len(r.Ingredients))
		for j, line := range r.Ingredients {
			ingredients[j] = models.IngredientAmountResponse{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			}
		}

		out[i] = models.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           authorResponses[i],
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return out, nil
}

func (p *Presenter) recipe(ctx context.Context, viewerID uint, recipe *models.Recipe) (models.RecipeResponse, error) {
	out, err := p.recipes(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return models.RecipeResponse{}, err
	}
	return out[0], nil
}

func shortRecipes(recipes []models.Recipe) []models.RecipeShortResponse {
	out := make([]models.RecipeShortResponse, len(recipes))
	for i := range recipes {
		out[i] = recipes[i].ToShortResponse()
	}
	return out
}
