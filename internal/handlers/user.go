package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
	"github.com/anonto42/foodhelper/backend/internal/storage"
)

const defaultUserPageSize = 6

// UserHandler serves user profiles and avatars
type UserHandler struct {
	userRepository repositories.UserRepository
	images         storage.ImageStore
	presenter      *Presenter
	logger         *log.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, images storage.ImageStore, p *Presenter, logger *log.Logger) *UserHandler {
	return &UserHandler{userRepository: userRepo, images: images, presenter: p, logger: logger}
}

// RegisterProfileRoutes registers profile routes on the /users group
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("", h.GetUsers)
	g.GET("/me", h.GetMe, middleware.RequireUser)
	g.PUT("/me/avatar", h.SetAvatar, middleware.RequireUser)
	g.DELETE("/me/avatar", h.DeleteAvatar, middleware.RequireUser)
	g.GET("/:id", h.GetUser)
}

// GetUsers lists users page by page
func (h *UserHandler) GetUsers(c echo.Context) error {
	p, err := parsePage(c, defaultUserPageSize)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	users, total, err := h.userRepository.GetUsers(ctx, p.offset(), p.limit)
	if err != nil {
		return err
	}
	out, err := h.presenter.users(ctx, getUserIDFromContext(c), users)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPage(c, p, total, out))
}

// GetUser returns a single profile
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id", "User")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	out, err := h.presenter.user(ctx, getUserIDFromContext(c), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, getUserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToResponse(false))
}

// SetAvatar replaces the current user's avatar with an uploaded data URL
func (h *UserHandler) SetAvatar(c echo.Context) error {
	var req models.AvatarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, getUserIDFromContext(c))
	if err != nil {
		return err
	}

	url, err := storeImage(ctx, h.images, storage.AvatarImages, req.Avatar)
	if err != nil {
		return err
	}
	if err := h.userRepository.UpdateAvatar(ctx, user.ID, url); err != nil {
		discardImage(ctx, h.images, h.logger, url)
		return err
	}
	discardImage(ctx, h.images, h.logger, user.Avatar)

	return c.JSON(http.StatusOK, models.AvatarResponse{Avatar: url})
}

// DeleteAvatar clears the current user's avatar
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, getUserIDFromContext(c))
	if err != nil {
		return err
	}

	if user.Avatar != "" {
		if err := h.userRepository.UpdateAvatar(ctx, user.ID, ""); err != nil {
			return err
		}
		discardImage(ctx, h.images, h.logger, user.Avatar)
	}
	return c.NoContent(http.StatusNoContent)
}
