package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

const (
	shortLinkAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortLinkLength   = 6
	shortLinkAttempts = 5
)

// ShortLinkRepository defines the interface for recipe short link storage
type ShortLinkRepository interface {
	GetOrCreate(ctx context.Context, recipeID uint) (*models.ShortLink, error)
	Resolve(ctx context.Context, token string) (*models.ShortLink, error)
	DeleteByRecipe(ctx context.Context, recipeID uint) error
}

// MongoShortLinkRepository implements ShortLinkRepository for MongoDB
type MongoShortLinkRepository struct {
	collection *mongo.Collection
}

// NewMongoShortLinkRepository creates a new MongoShortLinkRepository
func NewMongoShortLinkRepository(db *mongo.Database) *MongoShortLinkRepository {
	return &MongoShortLinkRepository{collection: db.Collection("short_links")}
}

// EnsureIndexes makes token and recipe_id unique so concurrent creators converge on one link.
func (r *MongoShortLinkRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "recipe_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// GetOrCreate returns the recipe's link, creating it on first use. The token is stable afterwards.
func (r *MongoShortLinkRepository) GetOrCreate(ctx context.Context, recipeID uint) (*models.ShortLink, error) {
	for range shortLinkAttempts {
		link, err := r.findByRecipe(ctx, recipeID)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		link = &models.ShortLink{
			ID:        primitive.NewObjectID(),
			Token:     NewShortLinkToken(),
			RecipeID:  recipeID,
			CreatedAt: time.Now(),
		}
		_, err = r.collection.InsertOne(ctx, link)
		if err == nil {
			return link, nil
		}
		// Either the token collided or another request created the link first; look again.
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a unique short link")
}

// Resolve finds the link for token.
func (r *MongoShortLinkRepository) Resolve(ctx context.Context, token string) (*models.ShortLink, error) {
	var link models.ShortLink
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("short link not found")
		}
		return nil, err
	}
	return &link, nil
}

func (r *MongoShortLinkRepository) DeleteByRecipe(ctx context.Context, recipeID uint) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"recipe_id": recipeID})
	return err
}

func (r *MongoShortLinkRepository) findByRecipe(ctx context.Context, recipeID uint) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := r.collection.FindOne(ctx, bson.M{"recipe_id": recipeID}).Decode(&link); err != nil {
		return nil, err
	}
	return &link, nil
}

// NewShortLinkToken returns a random alphanumeric token. Random bytes at or above
// the largest multiple of the alphabet size are rejected so every character is
// equally likely.
func NewShortLinkToken() string {
	const limit = 256 - 256%len(shortLinkAlphabet)

	token := make([]byte, 0, shortLinkLength)
	buf := make([]byte, shortLinkLength*2)
	for len(token) < shortLinkLength {
		_, _ = rand.Read(buf) // never fails on supported platforms
		for _, c := range buf {
			if int(c) >= limit || len(token) == shortLinkLength {
				continue
			}
			token = append(token, shortLinkAlphabet[int(c)%len(shortLinkAlphabet)])
		}
	}
	return string(token)
}
