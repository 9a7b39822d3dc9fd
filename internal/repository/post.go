package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows post listings. Title is a case-insensitive substring
// match; TagIDs matches posts carrying any of the given tags. Filters compose
// with AND.
type PostFilter struct {
	Title  string
	TagIDs []uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ByAuthor(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ByAuthors(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	Likers(ctx context.Context, postID uint) ([]string, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
	traces  *observability.TraceLayer
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		metrics: observability.NewDatabaseMetrics(db),
		traces:  observability.GetTraceLayer(),
	}
}

// Create upserts the named tags and inserts the post in one transaction, so
// a failed insert leaves no tag rows behind. The stored tag set is written
// back to post.Tags.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "Create", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("insert", "posts")()

	tagCreated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			tag, created, err := upsertTagByName(tx, name)
			if err != nil {
				return err
			}
			tagCreated = tagCreated || created
			tags = append(tags, *tag)
		}
		post.Tags = tags
		return tx.Create(post).Error
	})
	if err != nil {
		span.RecordError(err)
		return models.NewInternalError(err)
	}
	if tagCreated {
		cache.InvalidateTags(ctx)
	}
	return nil
}

// GetByID serves the per-viewer detail row cache-aside; every post, comment
// and like mutation invalidates the post's detail keys.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "GetByID", "posts")
	defer span.End()

	var post models.Post
	err := cache.Aside(ctx, cache.PostDetailKey(id, currentUserID), &post, cache.PostDetailTTL, func() error {
		defer r.metrics.TrackQuery("select", "posts")()
		err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Tags").
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "List", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("select", "posts")()

	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags")

	if filter.Title != "" {
		q = q.Where("LOWER(posts.title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}
	if len(filter.TagIDs) > 0 {
		q = q.Where("posts.id IN (SELECT post_id FROM post_tags WHERE tag_id IN ?)", filter.TagIDs)
	}

	var posts []*models.Post
	err := q.Order("posts.created_at ASC, posts.title ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ByAuthor(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return r.ByAuthors(ctx, []uint{userID}, limit, offset, currentUserID)
}

// ByAuthors returns posts by the given authors. An empty author set yields an
// empty page, not the full listing.
func (r *postRepository) ByAuthors(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if len(userIDs) == 0 {
		return []*models.Post{}, nil
	}

	ctx, span := r.traces.TraceRepositoryMethod(ctx, "ByAuthors", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("select", "posts")()

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		Where("posts.user_id IN ?", userIDs).
		Order("posts.created_at ASC, posts.title ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", currentUserID)
	}

	return db.Select(selectQuery + ", false AS liked")
}

// Update saves the mutable post columns and replaces its tag set.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "Update", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "CreatedAt").Save(post).Error; err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
	if err != nil {
		span.RecordError(err)
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post along with its comments, likes and tag links in a
// single transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "Delete", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// likeToggleAttempts bounds the retry loop in ToggleLike. Contention on a
// single (user, post) pair beyond this is pathological.
const likeToggleAttempts = 3

// ToggleLike flips the like membership for (userID, postID) and reports the
// resulting state. Delete-first, then an idempotent insert; the reported
// state comes from whichever statement affected a row. When a concurrent
// toggle commits its insert between our delete and insert, the OnConflict
// insert affects zero rows and we loop to flip against the now-visible row,
// so two simultaneous toggles from the not-liked state settle as one like
// followed by one unlike, never a lost toggle.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "ToggleLike", "likes")
	defer span.End()
	defer r.metrics.TrackQuery("upsert", "likes")()

	for attempt := 0; attempt < likeToggleAttempts; attempt++ {
		res := r.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return false, models.NewInternalError(res.Error)
		}
		if res.RowsAffected > 0 {
			cache.InvalidatePost(ctx, postID)
			return false, nil
		}

		like := models.Like{UserID: userID, PostID: postID}
		ins := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
				DoNothing: true,
			}).
			Create(&like)
		if ins.Error != nil {
			return false, models.NewInternalError(ins.Error)
		}
		if ins.RowsAffected > 0 {
			cache.InvalidatePost(ctx, postID)
			return true, nil
		}
		// A concurrent toggle won the insert; flip against its row.
	}
	return false, models.NewInternalError(errors.New("like toggle did not settle"))
}

func (r *postRepository) Likers(ctx context.Context, postID uint) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Order("likes.id ASC").
		Pluck("users.username", &usernames).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return usernames, nil
}
