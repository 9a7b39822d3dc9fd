// Package service holds the application's business rules, between handlers
// and repositories.
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"ripple/internal/authz"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 100
	maxContentLen = 50000

	// LikedMessage and UnlikedMessage are the toggle response bodies.
	LikedMessage   = "Post liked successfully"
	UnlikedMessage = "Post unliked successfully"
)

type PostService struct {
	postRepo    repository.PostRepository
	tagRepo     repository.TagRepository
	commentRepo repository.CommentRepository
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
	Tags     []string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
	Tags     []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	commentRepo repository.CommentRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		tagRepo:     tagRepo,
		commentRepo: commentRepo,
	}
}

func validatePostInput(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 100 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

// cleanTagNames trims each name, rejects empties, and collapses duplicates
// while keeping first-seen order.
func cleanTagNames(names []string) ([]string, error) {
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, models.NewValidationError("Tag name cannot be empty")
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	return cleaned, nil
}

// resolveTags upserts each cleaned name and returns the stored rows.
func (s *PostService) resolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	cleaned, err := cleanTagNames(names)
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(cleaned))
	for _, name := range cleaned {
		tag, err := s.tagRepo.UpsertByName(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "service.posts.create")
	defer span.End()
	span.AddAttributes(attribute.Int("post.tag_count", len(in.Tags)))

	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	tagNames, err := cleanTagNames(in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		UserID:    in.UserID,
		CreatedAt: now,
		// ChangedAt equals CreatedAt until the first edit
		ChangedAt: now,
	}
	// The repository upserts the tags and inserts the post atomically.
	if err := s.postRepo.Create(ctx, post, tagNames); err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.PostsCreatedTotal.Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns the detail representation: author, tags, embedded comments
// and liker usernames.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanRead(currentUserID, post); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id, maxEmbeddedComments, 0)
	if err != nil {
		return nil, err
	}
	likers, err := s.postRepo.Likers(ctx, id)
	if err != nil {
		return nil, err
	}

	return models.NewPostDetail(post, comments, likers), nil
}

// maxEmbeddedComments bounds the comments embedded in a detail view; the
// comments endpoint pages through the rest.
const maxEmbeddedComments = 100

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutate(in.UserID, post, "edit"); err != nil {
		return nil, err
	}
	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.ImageURL = in.ImageURL
	post.Tags = tags
	post.ChangedAt = time.Now().UTC()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if err := authz.CanMutate(in.UserID, post, "delete"); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the caller's like on the post and returns the message
// describing the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (string, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return "", err
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	if liked {
		observability.LikeTogglesTotal.WithLabelValues("liked").Inc()
		return LikedMessage, nil
	}
	observability.LikeTogglesTotal.WithLabelValues("unliked").Inc()
	return UnlikedMessage, nil
}
