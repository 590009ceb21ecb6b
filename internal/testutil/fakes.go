package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// ShortLinks is an in-memory short link store.
type ShortLinks struct {
	mu      sync.Mutex
	byToken map[string]models.ShortLink
	next    int
}

func NewShortLinks() *ShortLinks {
	return &ShortLinks{byToken: make(map[string]models.ShortLink)}
}

func (s *ShortLinks) GetOrCreate(_ context.Context, recipeID uint) (*models.ShortLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range s.byToken {
		if link.RecipeID == recipeID {
			return &link, nil
		}
	}
	s.next++
	link := models.ShortLink{Token: fmt.Sprintf("tok%03d", s.next), RecipeID: recipeID, CreatedAt: time.Now()}
	s.byToken[link.Token] = link
	return &link, nil
}

func (s *ShortLinks) Resolve(_ context.Context, token string) (*models.ShortLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.byToken[token]
	if !ok {
		return nil, apperr.NotFound("short link not found")
	}
	return &link, nil
}

func (s *ShortLinks) DeleteByRecipe(_ context.Context, recipeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, link := range s.byToken {
		if link.RecipeID == recipeID {
			delete(s.byToken, token)
		}
	}
	return nil
}

// Images records saved objects in memory.
type Images struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

func NewImages() *Images {
	return &Images{Objects: make(map[string][]byte)}
}

func (s *Images) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "https://cdn.test/" + key
	s.Objects[url] = data
	return url, nil
}

func (s *Images) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, url)
	s.Deleted = append(s.Deleted, url)
	return nil
}

// Mailer records welcome mails; set Err to make sending fail.
type Mailer struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *Mailer) SendWelcome(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, user.Email)
	return nil
}

func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// IngredientCache is a map-backed cache that counts hits.
type IngredientCache struct {
	mu    sync.Mutex
	items map[string][]models.Ingredient
	Hits  int
}

func NewIngredientCache() *IngredientCache {
	return &IngredientCache{items: make(map[string][]models.Ingredient)}
}

func (c *IngredientCache) Get(_ context.Context, prefix string) ([]models.Ingredient, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.items[prefix]
	if ok {
		c.Hits++
	}
	return items, ok, nil
}

func (c *IngredientCache) Set(_ context.Context, prefix string, items []models.Ingredient) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[prefix] = items
	return nil
}

func (c *IngredientCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	return nil
}

// TokenSecret signs every token minted by SignToken.
const TokenSecret = "test-secret"

// SignToken mints an HS256 bearer token for user.
func SignToken(t *testing.T, user *models.User) string {
	t.Helper()
	return SignTokenWith(t, TokenSecret, user.ID, time.Now().Add(time.Hour))
}

func SignTokenWith(t *testing.T, secret string, userID uint, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

// ErrBoom is a generic failure injected into fakes.
var ErrBoom = errors.New("boom")

// FirebaseTokens verifies Firebase ID tokens against a fixed table.
type FirebaseTokens map[string]*auth.Token

// Add registers idToken as a valid token for uid carrying email.
func (f FirebaseTokens) Add(idToken, uid, email string, emailVerified bool) {
	f[idToken] = &auth.Token{UID: uid, Claims: map[string]interface{}{
		"email":          email,
		"email_verified": emailVerified,
	}}
}

func (f FirebaseTokens) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	token, ok := f[idToken]
	if !ok {
		return nil, errors.New("firebase: invalid id token")
	}
	return token, nil
}
