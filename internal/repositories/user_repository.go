package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	LinkFirebaseUID(ctx context.Context, id uint, firebaseUID string) error
	UpdateAvatar(ctx context.Context, id uint, url string) error
}

// SQLUserRepository implements UserRepository on the relational store
type SQLUserRepository struct {
	db *gorm.DB
}

// NewSQLUserRepository creates a new SQLUserRepository
func NewSQLUserRepository(db *gorm.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// CreateUser fails with a Conflict error when the email or username is taken.
func (r *SQLUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("a user with this email or username already exists")
		}
		return err
	}
	return nil
}

func (r *SQLUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *SQLUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *SQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers pages through users ordered by id.
func (r *SQLUserRepository) GetUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := db.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *SQLUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumn(ctx, id, "password", passwordHash)
}

// LinkFirebaseUID attaches a Firebase account to a user that has none yet.
func (r *SQLUserRepository) LinkFirebaseUID(ctx context.Context, id uint, firebaseUID string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND firebase_uid IS NULL", id).
		Update("firebase_uid", firebaseUID)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return apperr.Conflict("this firebase account is already linked")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("user is already linked to a firebase account")
	}
	return nil
}

// UpdateAvatar stores the avatar URL; an empty url clears it.
func (r *SQLUserRepository) UpdateAvatar(ctx context.Context, id uint, url string) error {
	return r.updateColumn(ctx, id, "avatar", url)
}

func (r *SQLUserRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
