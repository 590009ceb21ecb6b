package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/mailer"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
)

// AuthHandler handles account registration and password changes.
// Bearer tokens are issued elsewhere.
type AuthHandler struct {
	userRepository repositories.UserRepository
	mailer         mailer.Mailer
	firebaseAuth   middleware.IDTokenVerifier
	logger         *log.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil when
// Firebase sign-in is not configured.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	m mailer.Mailer,
	firebaseAuth middleware.IDTokenVerifier,
	logger *log.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mailer:         m,
		firebaseAuth:   firebaseAuth,
		logger:         logger,
	}
}

// RegisterAuthRoutes registers account routes on the /users group
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("", h.Register)
	g.POST("/set_password", h.SetPassword, middleware.RequireUser)
	if h.firebaseAuth != nil {
		g.POST("/firebase", h.FirebaseLogin)
	}
}

// Register creates a local account with a bcrypt-hashed password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashedPassword),
	}

	ctx := c.Request().Context()
	if err := h.createUser(ctx, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdUser(user))
}

// FirebaseLogin resolves a verified Firebase ID token to a local user. The
// Firebase UID only ever comes from the verified token. An existing account is
// linked by email only when Firebase reports that email as verified; otherwise
// a new account is created and a taken email is a conflict.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return apperr.Unauthorized("invalid firebase id token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return c.JSON(http.StatusOK, createdUser(user))
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return apperr.Validation("firebase account has no email address")
	}

	if verified, _ := token.Claims["email_verified"].(bool); verified {
		existing, err := h.userRepository.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if err := h.userRepository.LinkFirebaseUID(ctx, existing.ID, token.UID); err != nil {
				return err
			}
			h.logger.Info("firebase account linked", "user_id", existing.ID)
			return c.JSON(http.StatusOK, createdUser(existing))
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}

	if req.Username == "" {
		return apperr.Validation("username is required")
	}
	uid := token.UID
	user = &models.User{
		Email:       email,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		FirebaseUID: &uid,
	}
	if err := h.createUser(ctx, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdUser(user))
}

func (h *AuthHandler) createUser(ctx context.Context, user *models.User) error {
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := h.mailer.SendWelcome(ctx, user); err != nil {
		h.logger.Warn("welcome mail not sent", "user_id", user.ID, "err", err)
	}
	return nil
}

func createdUser(user *models.User) models.CreatedUserResponse {
	return models.CreatedUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// SetPassword replaces the current user's password after checking the old one
func (h *AuthHandler) SetPassword(c echo.Context) error {
	var req models.SetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, getUserIDFromContext(c))
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperr.Validation("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.userRepository.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
