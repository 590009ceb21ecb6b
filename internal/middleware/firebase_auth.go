package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

// IDTokenVerifier is the part of *auth.Client used for authentication.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseUserLookup maps a Firebase UID onto a local account.
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// FirebaseVerifier accepts Firebase ID tokens whose UID belongs to a registered user.
type FirebaseVerifier struct {
	client IDTokenVerifier
	users  FirebaseUserLookup
}

func NewFirebaseVerifier(client IDTokenVerifier, users FirebaseUserLookup) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (uint, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return 0, fmt.Errorf("invalid or expired ID token: %w", err)
	}

	user, err := v.users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		return 0, fmt.Errorf("no account for firebase user %s: %w", token.UID, err)
	}
	return user.ID, nil
}
