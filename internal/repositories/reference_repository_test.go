package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/testutil"
)

func TestIngredientRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSQLIngredientRepository(db)

	inserted, err := repo.LoadIngredients(ctx, []models.Ingredient{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "tbsp"},
		{Name: "100%_juice", MeasurementUnit: "ml"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if inserted != 4 {
		t.Errorf("expected 4 inserted, got %d", inserted)
	}

	t.Run("reload skips existing pairs", func(t *testing.T) {
		inserted, err := repo.LoadIngredients(ctx, []models.Ingredient{
			{Name: "sugar", MeasurementUnit: "g"},
			{Name: "pepper", MeasurementUnit: "g"},
		})
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if inserted != 1 {
			t.Errorf("expected 1 inserted, got %d", inserted)
		}
	})

	t.Run("prefix search", func(t *testing.T) {
		tt := []struct {
			prefix string
			want   int
		}{
			{"", 5},
			{"su", 2},
			{"SU", 2},
			{"s", 3},
			{"x", 0},
			{"100%", 1},
			{"1%", 0},
		}
		for _, tc := range tt {
			t.Run(tc.prefix, func(t *testing.T) {
				got, err := repo.SearchIngredients(ctx, tc.prefix)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(got) != tc.want {
					t.Errorf("expected %d results, got %+v", tc.want, got)
				}
			})
		}
	})

	t.Run("get by id", func(t *testing.T) {
		all, _ := repo.SearchIngredients(ctx, "pepper")
		got, err := repo.GetIngredientByID(ctx, all[0].ID)
		if err != nil || got.Name != "pepper" {
			t.Fatalf("unexpected %+v %v", got, err)
		}
		if _, err := repo.GetIngredientByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestTagRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSQLTagRepository(db)

	inserted, err := repo.LoadTags(ctx, []models.Tag{{Name: "Breakfast", Slug: "breakfast"}, {Name: "Lunch", Slug: "lunch"}})
	if err != nil || inserted != 2 {
		t.Fatalf("load: %d %v", inserted, err)
	}
	if inserted, _ := repo.LoadTags(ctx, []models.Tag{{Name: "Breakfast", Slug: "breakfast"}}); inserted != 0 {
		t.Errorf("expected duplicate tag to be skipped, got %d", inserted)
	}

	tags, err := repo.GetTags(ctx)
	if err != nil || len(tags) != 2 {
		t.Fatalf("list: %+v %v", tags, err)
	}

	got, err := repo.GetTagByID(ctx, tags[1].ID)
	if err != nil || got.Slug != "lunch" {
		t.Fatalf("get: %+v %v", got, err)
	}
	if _, err := repo.GetTagByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
