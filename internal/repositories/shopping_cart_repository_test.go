package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/testutil"
)

func TestShoppingList(t *testing.T) {
	ctx := context.Background()

	t.Run("sums amounts per name and unit", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewSQLShoppingCartRepository(db)
		user := testutil.MustCreateUser(t, db, "shopper")
		sugar := testutil.MustCreateIngredient(t, db, "Sugar", "g")
		salt := testutil.MustCreateIngredient(t, db, "Salt", "g")
		r1 := testutil.MustCreateRecipe(t, db, user, "Cake", nil, testutil.Amount{Ingredient: sugar, Amount: 100})
		r2 := testutil.MustCreateRecipe(t, db, user, "Pie", nil,
			testutil.Amount{Ingredient: sugar, Amount: 50},
			testutil.Amount{Ingredient: salt, Amount: 10},
		)

		for _, r := range []*models.Recipe{r1, r2} {
			if _, err := repo.AddToCart(ctx, user.ID, r.ID); err != nil {
				t.Fatalf("add to cart: %v", err)
			}
		}

		rows, err := repo.ShoppingList(ctx, user.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []models.IngredientTotal{
			{Name: "Salt", MeasurementUnit: "g", TotalAmount: 10},
			{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 150},
		}
		if len(rows) != len(want) {
			t.Fatalf("expected %d rows, got %+v", len(want), rows)
		}
		for i := range want {
			if rows[i] != want[i] {
				t.Errorf("row %d: expected %+v, got %+v", i, want[i], rows[i])
			}
		}
	})

	t.Run("different units stay separate", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewSQLShoppingCartRepository(db)
		user := testutil.MustCreateUser(t, db, "shopper")
		grams := testutil.MustCreateIngredient(t, db, "Flour", "g")
		cups := testutil.MustCreateIngredient(t, db, "Flour", "cup")
		r := testutil.MustCreateRecipe(t, db, user, "Bread", nil,
			testutil.Amount{Ingredient: grams, Amount: 500},
			testutil.Amount{Ingredient: cups, Amount: 2},
		)
		if _, err := repo.AddToCart(ctx, user.ID, r.ID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}

		rows, err := repo.ShoppingList(ctx, user.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %+v", rows)
		}
		if rows[0].MeasurementUnit != "cup" || rows[1].MeasurementUnit != "g" {
			t.Errorf("expected cup before g, got %+v", rows)
		}
	})

	t.Run("only the user's cart counts", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewSQLShoppingCartRepository(db)
		alice := testutil.MustCreateUser(t, db, "alice")
		bob := testutil.MustCreateUser(t, db, "bob")
		eggs := testutil.MustCreateIngredient(t, db, "Eggs", "pcs")
		r := testutil.MustCreateRecipe(t, db, alice, "Omelette", nil, testutil.Amount{Ingredient: eggs, Amount: 3})
		if _, err := repo.AddToCart(ctx, bob.ID, r.ID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}

		rows, err := repo.ShoppingList(ctx, alice.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected empty list for alice, got %+v", rows)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewSQLShoppingCartRepository(db)
		user := testutil.MustCreateUser(t, db, "shopper")

		rows, err := repo.ShoppingList(ctx, user.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected empty list, got %+v", rows)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewSQLShoppingCartRepository(db)

		_, err := repo.ShoppingList(ctx, 999)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestShoppingCartMembership(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSQLShoppingCartRepository(db)
	user := testutil.MustCreateUser(t, db, "shopper")
	recipe := testutil.MustCreateRecipe(t, db, user, "Soup", nil)

	t.Run("add", func(t *testing.T) {
		entry, err := repo.AddToCart(ctx, user.ID, recipe.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.ID == 0 {
			t.Error("expected entry to be persisted")
		}
	})

	t.Run("add twice is a conflict", func(t *testing.T) {
		_, err := repo.AddToCart(ctx, user.ID, recipe.ID)
		if !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}

		var count int64
		db.Model(&models.ShoppingCartEntry{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly one row, got %d", count)
		}
	})

	t.Run("flags", func(t *testing.T) {
		ids, err := repo.GetCartRecipeIDs(ctx, user.ID, []uint{recipe.ID, recipe.ID + 100})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ids[recipe.ID] || ids[recipe.ID+100] {
			t.Errorf("unexpected flags %v", ids)
		}
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := repo.AddToCart(ctx, user.ID, 999)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := repo.RemoveFromCart(ctx, user.ID, recipe.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("remove missing pair", func(t *testing.T) {
		err := repo.RemoveFromCart(ctx, user.ID, recipe.ID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestShoppingCartConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSQLShoppingCartRepository(db)
	user := testutil.MustCreateUser(t, db, "shopper")
	recipe := testutil.MustCreateRecipe(t, db, user, "Soup", nil)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repo.AddToCart(ctx, user.ID, recipe.ID)
		}()
	}
	wg.Wait()

	var added, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			added++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if added != 1 || conflicts != workers-1 {
		t.Errorf("expected 1 add and %d conflicts, got %d and %d", workers-1, added, conflicts)
	}

	var rows int64
	if err := db.Model(&models.ShoppingCartEntry{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected a single cart row, got %d", rows)
	}
}
