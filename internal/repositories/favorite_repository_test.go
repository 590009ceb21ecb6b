package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/testutil"
)

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSQLFavoriteRepository(db)
	user := testutil.MustCreateUser(t, db, "fan")
	recipe := testutil.MustCreateRecipe(t, db, user, "Stew", nil)

	if _, err := repo.AddFavorite(ctx, user.ID, recipe.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("add twice is a conflict", func(t *testing.T) {
		_, err := repo.AddFavorite(ctx, user.ID, recipe.ID)
		if !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("is favorited", func(t *testing.T) {
		ok, err := repo.IsFavorited(ctx, user.ID, recipe.ID)
		if err != nil || !ok {
			t.Fatalf("expected favorited, got %v %v", ok, err)
		}
	})

	t.Run("anonymous viewer gets no flags", func(t *testing.T) {
		ids, err := repo.GetFavoritedIDs(ctx, 0, []uint{recipe.ID})
		if err != nil || len(ids) != 0 {
			t.Fatalf("expected empty flags, got %v %v", ids, err)
		}
	})

	t.Run("remove then remove again", func(t *testing.T) {
		if err := repo.RemoveFavorite(ctx, user.ID, recipe.ID); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if err := repo.RemoveFavorite(ctx, user.ID, recipe.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
