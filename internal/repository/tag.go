package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	UpsertByName(ctx context.Context, name string) (*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	var tags []models.Tag
	key := cache.TagsKey(limit, offset)

	err := cache.Aside(ctx, key, &tags, cache.TagsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Order("name ASC").
			Limit(limit).
			Offset(offset).
			Find(&tags).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tag", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

// UpsertByName inserts the tag if it does not exist and returns the stored
// row either way. The unique index on name makes the insert race-safe.
func (r *tagRepository) UpsertByName(ctx context.Context, name string) (*models.Tag, error) {
	tag, created, err := upsertTagByName(r.db.WithContext(ctx), name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if created {
		cache.InvalidateTags(ctx)
	}
	return tag, nil
}

// upsertTagByName is the shared upsert core, run against a plain handle or a
// transaction. It reports whether the tag row is new.
func upsertTagByName(db *gorm.DB, name string) (*models.Tag, bool, error) {
	tag := models.Tag{Name: name}
	res := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&tag)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &tag, true, nil
	}

	// Lost the race or the tag already existed; fetch the canonical row.
	var existing models.Tag
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}
