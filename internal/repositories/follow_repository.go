package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, authorID uint) (*models.Follow, error)
	DeleteFollow(ctx context.Context, followerID, authorID uint) error
	IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error)
	GetFollowing(ctx context.Context, followerID uint, offset, limit int) ([]models.User, int64, error)
	GetFollowingIDs(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]bool, error)
}

// SQLFollowRepository implements FollowRepository on the relational store
type SQLFollowRepository struct {
	db *gorm.DB
}

// NewSQLFollowRepository creates a new SQLFollowRepository
func NewSQLFollowRepository(db *gorm.DB) *SQLFollowRepository {
	return &SQLFollowRepository{db: db}
}

// CreateFollow subscribes followerID to authorID. Following yourself is a validation error,
// an unknown author is NotFound and an existing subscription is a Conflict.
func (r *SQLFollowRepository) CreateFollow(ctx context.Context, followerID, authorID uint) (*models.Follow, error) {
	if followerID == authorID {
		return nil, apperr.Validation("you cannot subscribe to yourself")
	}

	follow := &models.Follow{FollowerID: followerID, AuthorID: authorID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, authorID); err != nil {
			return err
		}
		if err := tx.Create(follow).Error; err != nil {
			if isDuplicateKey(err) {
				return apperr.Conflict("you are already subscribed to this user")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return follow, nil
}

func (r *SQLFollowRepository) DeleteFollow(ctx context.Context, followerID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("you are not subscribed to this user")
	}
	return nil
}

func (r *SQLFollowRepository) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowing pages through the authors followerID is subscribed to, most recent first.
func (r *SQLFollowRepository) GetFollowing(ctx context.Context, followerID uint, offset, limit int) ([]models.User, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", followerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// GetFollowingIDs reports which of authorIDs followerID is subscribed to.
func (r *SQLFollowRepository) GetFollowingIDs(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if followerID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
