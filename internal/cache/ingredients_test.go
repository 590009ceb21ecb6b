package cache

import (
	"context"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

func TestIngredientKey(t *testing.T) {
	tt := []struct {
		prefix string
		want   string
	}{
		{"", "cache:ingredients:"},
		{"Sug", "cache:ingredients:sug"},
		{"  salt ", "cache:ingredients:salt"},
	}

	for _, tc := range tt {
		if got := IngredientKey(tc.prefix); got != tc.want {
			t.Errorf("IngredientKey(%q) = %q, want %q", tc.prefix, got, tc.want)
		}
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c IngredientCache = Noop{}

	if err := c.Set(ctx, "s", []models.Ingredient{{Name: "salt"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "s"); ok || err != nil {
		t.Errorf("expected miss without error, got ok=%v err=%v", ok, err)
	}
}
