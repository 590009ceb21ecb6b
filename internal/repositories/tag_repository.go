package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

// TagRepository defines the interface for tag reference data
type TagRepository interface {
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTagByID(ctx context.Context, id uint) (*models.Tag, error)
	LoadTags(ctx context.Context, tags []models.Tag) (int64, error)
}

// SQLTagRepository implements TagRepository on the relational store
type SQLTagRepository struct {
	db *gorm.DB
}

func NewSQLTagRepository(db *gorm.DB) *SQLTagRepository {
	return &SQLTagRepository{db: db}
}

func (r *SQLTagRepository) GetTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *SQLTagRepository) GetTagByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// LoadTags inserts tags whose slug is not yet taken and returns the number inserted.
func (r *SQLTagRepository) LoadTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tags)
	return res.RowsAffected, res.Error
}
