package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
)

func TestNewShortLinkToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		token := NewShortLinkToken()
		if len(token) != shortLinkLength {
			t.Fatalf("expected %d characters, got %q", shortLinkLength, token)
		}
		for _, r := range token {
			if !strings.ContainsRune(shortLinkAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, token)
			}
		}
		seen[token] = true
	}
	// 62^6 possible tokens; a handful of collisions in 200 draws would mean a broken generator.
	if len(seen) < 195 {
		t.Errorf("expected distinct tokens, got %d unique of 200", len(seen))
	}
}

func TestNewShortLinkTokenDistribution(t *testing.T) {
	const perChar = 2000
	counts := make(map[rune]int, len(shortLinkAlphabet))
	draws := perChar * len(shortLinkAlphabet) / shortLinkLength
	for range draws {
		for _, r := range NewShortLinkToken() {
			counts[r]++
		}
	}

	// A modulo mapping of raw bytes gives the first eight characters about 25% more
	// hits (~2420); the bounds sit more than six standard deviations from uniform.
	for _, r := range shortLinkAlphabet {
		if n := counts[r]; n < 1700 || n > 2300 {
			t.Errorf("character %q drawn %d times, expected about %d", r, n, perChar)
		}
	}
}

func shortLinkDoc(token string, recipeID uint) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "token", Value: token},
		{Key: "recipe_id", Value: int64(recipeID)},
		{Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Now())},
	}
}

func TestMongoShortLinkRepository(t *testing.T) {
	ctx := context.Background()
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "foodhelper.short_links"

	noLink := func() bson.D { return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch) }
	found := func(token string, recipeID uint) bson.D {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, shortLinkDoc(token, recipeID))
	}
	duplicate := func() bson.D {
		return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
	}

	mt.Run("existing link is returned", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(found("abc123", 7))

		link, err := repo.GetOrCreate(ctx, 7)
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if link.Token != "abc123" || link.RecipeID != 7 {
			mt.Errorf("unexpected link %+v", link)
		}
		if evt := mt.GetStartedEvent(); evt == nil || evt.CommandName != "find" {
			mt.Errorf("expected a single find, got %+v", evt)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Errorf("expected no insert, got %s", evt.CommandName)
		}
	})

	mt.Run("missing link is created", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(noLink(), mtest.CreateSuccessResponse())

		link, err := repo.GetOrCreate(ctx, 7)
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if len(link.Token) != shortLinkLength || link.RecipeID != 7 || link.ID.IsZero() {
			mt.Errorf("unexpected link %+v", link)
		}

		mt.GetStartedEvent()
		if insert := mt.GetStartedEvent(); insert == nil || insert.CommandName != "insert" {
			mt.Fatalf("expected insert, got %+v", insert)
		}
	})

	mt.Run("duplicate key retries and returns the winner", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(noLink(), duplicate(), found("winner", 7))

		link, err := repo.GetOrCreate(ctx, 7)
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if link.Token != "winner" {
			mt.Errorf("expected the concurrently created link, got %+v", link)
		}
	})

	mt.Run("gives up after repeated collisions", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		for range shortLinkAttempts {
			mt.AddMockResponses(noLink(), duplicate())
		}

		if _, err := repo.GetOrCreate(ctx, 7); err == nil {
			mt.Fatal("expected an error")
		}
	})

	mt.Run("insert failure is returned", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(noLink(), mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 2, Message: "bad value"}))

		_, err := repo.GetOrCreate(ctx, 7)
		var we mongo.WriteException
		if !errors.As(err, &we) {
			mt.Fatalf("expected write exception, got %v", err)
		}
	})

	mt.Run("resolve", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(found("abc123", 7))

		link, err := repo.Resolve(ctx, "abc123")
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if link.RecipeID != 7 {
			mt.Errorf("unexpected link %+v", link)
		}
		evt := mt.GetStartedEvent()
		if got := evt.Command.Lookup("filter", "token").StringValue(); got != "abc123" {
			mt.Errorf("expected token filter, got %q", got)
		}
	})

	mt.Run("resolve unknown token", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(noLink())

		if _, err := repo.Resolve(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})

	mt.Run("resolve server error", func(mt *mtest.T) {
		repo := NewMongoShortLinkRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))

		_, err := repo.Resolve(ctx, "abc123")
		if err == nil || apperr.IsKind(err, apperr.KindNotFound) {
			mt.Fatalf("expected a server error, got %v", err)
		}
	})
}
