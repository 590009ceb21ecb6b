package validators

import (
	"strings"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	validUser := func() models.CreateUserRequest {
		return models.CreateUserRequest{
			Email:     "cook@example.com",
			Username:  "cook.42",
			FirstName: "Ann",
			LastName:  "Cook",
			Password:  "s3cretpass",
		}
	}

	t.Run("username rule", func(t *testing.T) {
		tt := []struct {
			username string
			ok       bool
		}{
			{"cook.42", true},
			{"a+b@c-d_e", true},
			{"me", false},
			{"Admin", false},
			{"root", false},
			{"bad name", false},
			{"semi;colon", false},
		}

		for _, tc := range tt {
			t.Run(tc.username, func(t *testing.T) {
				req := validUser()
				req.Username = tc.username

				err := v.Validate(&req)
				if tc.ok && err != nil {
					t.Fatalf("expected %q to be accepted, got %v", tc.username, err)
				}
				if !tc.ok && !apperr.IsKind(err, apperr.KindValidation) {
					t.Fatalf("expected validation error for %q, got %v", tc.username, err)
				}
			})
		}
	})

	t.Run("messages use json names", func(t *testing.T) {
		req := validUser()
		req.FirstName = ""

		err := v.Validate(&req)
		if err == nil || !strings.Contains(apperr.MessageOf(err), "first_name is required") {
			t.Fatalf("expected first_name message, got %v", err)
		}
	})

	t.Run("recipe request", func(t *testing.T) {
		valid := func() models.CreateRecipeRequest {
			return models.CreateRecipeRequest{
				Name:        "Pancakes",
				Text:        "Mix and fry.",
				Image:       "data:image/png;base64,AAAA",
				CookingTime: 15,
				Tags:        []uint{1},
				Ingredients: []models.RecipeIngredientInput{{ID: 1, Amount: 200}},
			}
		}

		tt := []struct {
			name   string
			mutate func(r *models.CreateRecipeRequest)
			ok     bool
		}{
			{"valid", func(r *models.CreateRecipeRequest) {}, true},
			{"zero cooking time", func(r *models.CreateRecipeRequest) { r.CookingTime = 0 }, false},
			{"zero amount", func(r *models.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 }, false},
			{"no ingredients", func(r *models.CreateRecipeRequest) { r.Ingredients = nil }, false},
			{"no tags", func(r *models.CreateRecipeRequest) { r.Tags = []uint{} }, false},
			{"duplicate tags", func(r *models.CreateRecipeRequest) { r.Tags = []uint{1, 1} }, false},
			{"duplicate ingredients", func(r *models.CreateRecipeRequest) {
				r.Ingredients = append(r.Ingredients, models.RecipeIngredientInput{ID: 1, Amount: 5})
			}, false},
			{"missing image", func(r *models.CreateRecipeRequest) { r.Image = "" }, false},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				req := valid()
				tc.mutate(&req)

				err := v.Validate(&req)
				if tc.ok && err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				if !tc.ok && !apperr.IsKind(err, apperr.KindValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})
}
